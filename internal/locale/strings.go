package locale

import (
	"fmt"
	"strings"
)

// Strings is the full set of caller-facing messages for one language.
type Strings struct {
	Welcome                string
	ChooseLanguage         string
	ContinueLanguage       string
	HowHelp                string
	ClaimPrompt            string
	MobilePrompt           string
	MobileRegistered       string
	MobileUnregistered     string
	PolicyListHeader       string
	PolicyItem             string
	PolicyPrompt           string
	PolicyNumberPrompt     string
	FetchPolicy            string
	OTPRegistered          string
	OTPUnregistered        string
	DatePrompt             string
	TimePrompt             string
	CityPrompt             string
	StatePrompt            string
	DriverPrompt           string
	AskEmail               string
	EmailConfirm           string
	ClaimSuccess           string
	ClaimReference         string
	FinalData              string
	OTPEmail               string
	OTPVerificationSuccess string
	OTPVerificationFailed  string
	NoEmailNoPDF           string
	EndFlow                string
	RepeatPrompt           string
	InvalidInput           string
	HealthPolicyRedirect   string
	AMPMClarify            string
	AMPMInvalid            string
	InvalidMobile          string
	PDFSent                string
}

// For returns the table for lang, falling back to English.
func For(lang Language) *Strings {
	switch lang {
	case Hindi:
		return &hindi
	case Marathi:
		return &marathi
	case Gujarati:
		return &gujarati
	default:
		return &english
	}
}

// Greeting is the welcome line followed by the language question.
func (s *Strings) Greeting() string {
	return s.Welcome + "\n" + s.ChooseLanguage
}

// Repeat asks the caller to say the named field again.
func (s *Strings) Repeat(field string) string {
	return fmt.Sprintf(s.RepeatPrompt, strings.ReplaceAll(field, "_", " "))
}

// ConfirmEmail asks the caller to confirm the captured address.
func (s *Strings) ConfirmEmail(email string) string {
	return fmt.Sprintf(s.EmailConfirm, email)
}

// PolicyList renders the header plus one line per policy number.
func (s *Strings) PolicyList(policies []string) string {
	var sb strings.Builder
	sb.WriteString(s.PolicyListHeader)
	for _, p := range policies {
		sb.WriteString("\n- ")
		sb.WriteString(fmt.Sprintf(s.PolicyItem, p))
	}
	return sb.String()
}

var english = Strings{
	Welcome:                "🤖 Hi, Welcome to SBI General Insurance.",
	ChooseLanguage:         "Which language would you like to continue in? Hindi, English, Marathi, or Gujarati?",
	ContinueLanguage:       "You can continue in English.",
	HowHelp:                "How may I assist you today?",
	ClaimPrompt:            "I can assist with claim intimation or policy PDF retrieval. Please say something like 'I want to intimate a claim' or 'I want to download my policy PDF.'",
	MobilePrompt:           "Please provide your mobile number.",
	MobileRegistered:       "Thank you. This number is registered with us.",
	MobileUnregistered:     "This number does not appear to be registered with us.",
	PolicyListHeader:       "You have the following policies:",
	PolicyItem:             "Policy %s",
	PolicyPrompt:           "Which policy would you like to proceed with?",
	PolicyNumberPrompt:     "Please provide your policy number.",
	FetchPolicy:            "Fetching policy details, please wait...",
	OTPRegistered:          "An OTP has been sent to your registered mobile. Please provide the 6-digit OTP.",
	OTPUnregistered:        "An OTP has been sent to your mobile number. Please provide the 6-digit OTP.",
	DatePrompt:             "Please tell me the date of the accident.",
	TimePrompt:             "Please tell me the time of the accident.",
	CityPrompt:             "Please tell me the city where the accident occurred.",
	StatePrompt:            "Please tell me the state where the accident occurred.",
	DriverPrompt:           "Thank you. Who was driving the car?",
	AskEmail:               "Please provide your email address.",
	EmailConfirm:           "Please confirm, is this your email: %s? (yes/no)",
	ClaimSuccess:           "✅ Your claim has been successfully intimated.",
	ClaimReference:         "Claim number: %s",
	FinalData:              "📄 Final structured data:",
	OTPEmail:               "We have sent an OTP to your email. Please enter the OTP.",
	OTPVerificationSuccess: "Your OTP is successfully verified and registered email has been successfully updated. We have sent you your policy document on the registered email.",
	OTPVerificationFailed:  "OTP verification is unsuccessful. Calling CRM API to update email ID and sending PDF.",
	NoEmailNoPDF:           "Cannot send policy PDF without an email address.",
	EndFlow:                "Thank you for contacting SBI General Insurance. Have a nice day!",
	RepeatPrompt:           "I didn’t catch that. Could you repeat your %s?",
	InvalidInput:           "Sorry, I didn't understand that. Please try again.",
	HealthPolicyRedirect:   "This is a health policy. Please use the health claim process.",
	AMPMClarify:            "Did you mean AM or PM?",
	AMPMInvalid:            "Please reply with 'AM' or 'PM'.",
	InvalidMobile:          "Please enter a valid 10-digit mobile number.",
	PDFSent:                "Policy PDF sent to your email.",
}

var hindi = Strings{
	Welcome:                "🤖 नमस्ते, SBI जनरल इंश्योरेंस में आपका स्वागत है।",
	ChooseLanguage:         "आप कौन सी भाषा में आगे बढ़ना चाहेंगे? हिंदी, अंग्रेजी, मराठी, या गुजराती?",
	ContinueLanguage:       "आप हिंदी में जारी रख सकते हैं।",
	HowHelp:                "मैं आपकी आज कैसे सहायता कर सकता हूँ?",
	ClaimPrompt:            "मैं दावा शुरू करने या पॉलिसी पीडीएफ प्राप्त करने में सहायता कर सकता हूँ। कृपया कुछ ऐसा कहें जैसे 'मैं दावा शुरू करना चाहता हूँ' या 'मैं अपनी पॉलिसी पीडीएफ डाउनलोड करना चाहता हूँ।'",
	MobilePrompt:           "कृपया अपना मोबाइल नंबर प्रदान करें।",
	MobileRegistered:       "धन्यवाद। यह नंबर हमारे पास पंजीकृत है।",
	MobileUnregistered:     "यह नंबर हमारे पास पंजीकृत नहीं प्रतीत होता।",
	PolicyListHeader:       "आपके पास निम्नलिखित पॉलिसियाँ हैं:",
	PolicyItem:             "पॉलिसी %s",
	PolicyPrompt:           "आप किस पॉलिसी के साथ आगे बढ़ना चाहेंगे?",
	PolicyNumberPrompt:     "कृपया अपनी पॉलिसी नंबर प्रदान करें।",
	FetchPolicy:            "पॉलिसी विवरण प्राप्त कर रहा हूँ, कृपया प्रतीक्षा करें...",
	OTPRegistered:          "आपके पंजीकृत मोबाइल पर एक ओ.टी.पी भेजा गया है। कृपया छह अंकों का ओ.टी.पी प्रदान करें।",
	OTPUnregistered:        "आपके मोबाइल नंबर पर एक ओ.टी.पी भेजा गया है। कृपया छह अंकों का ओ.टी.पी प्रदान करें।",
	DatePrompt:             "कृपया मुझे दुर्घटना की तारीख बताएं।",
	TimePrompt:             "कृपया मुझे दुर्घटना का समय बताएं।",
	CityPrompt:             "कृपया मुझे बताएं कि दुर्घटना किस शहर में हुई थी।",
	StatePrompt:            "कृपया मुझे बताएं कि दुर्घटना किस राज्य में हुई थी।",
	DriverPrompt:           "धन्यवाद। गाड़ी कौन चला रहा था?",
	AskEmail:               "कृपया अपना ईमेल आईडी बताएं।",
	EmailConfirm:           "कृपया पुष्टि करें, क्या यह आपका ईमेल है: %s? (हाँ/नहीं)",
	ClaimSuccess:           "✅ आपका दावा सफलतापूर्वक शुरू हो गया है।",
	ClaimReference:         "दावा संख्या: %s",
	FinalData:              "📄 अंतिम संरचित डेटा:",
	OTPEmail:               "हमने आपके ईमेल पर OTP भेजा है। कृपया OTP दर्ज करें।",
	OTPVerificationSuccess: "आपका OTP सफलतापूर्वक सत्यापित हो गया है और पंजीकृत ईमेल सफलतापूर्वक अपडेट हो गया है। हमने आपकी पॉलिसी PDF आपके पंजीकृत ईमेल पर भेज दी है।",
	OTPVerificationFailed:  "OTP सत्यापन असफल रहा। CRM API को कॉल कर ईमेल ID अपडेट कर रहे हैं और PDF भेज रहे हैं।",
	NoEmailNoPDF:           "ईमेल के बिना पॉलिसी PDF नहीं भेजी जा सकती।",
	EndFlow:                "SBI जनरल इंश्योरेंस से संपर्क करने के लिए धन्यवाद। शुभ दिन!",
	RepeatPrompt:           "मुझे वह समझ नहीं आया। कृपया अपनी %s दोहराएं।",
	InvalidInput:           "माफ़ कीजिए, मैं समझ नहीं पाया। कृपया फिर से प्रयास करें।",
	HealthPolicyRedirect:   "यह एक स्वास्थ्य पॉलिसी है। कृपया स्वास्थ्य दावा प्रक्रिया का उपयोग करें।",
	AMPMClarify:            "क्या आप AM या PM कहना चाहते हैं?",
	AMPMInvalid:            "'AM' या 'PM' के साथ उत्तर दें।",
	InvalidMobile:          "कृपया 10 अंकों का वैध मोबाइल नंबर दर्ज करें।",
	PDFSent:                "पॉलिसी पीडीएफ आपके ईमेल पर भेजी गई।",
}

var marathi = Strings{
	Welcome:                "🤖 नमस्कार, SBI जनरल इन्शुरन्समध्ये आपले स्वागत आहे.",
	ChooseLanguage:         "आपण कोणत्या भाषेत पुढे जाऊ इच्छिता? हिंदी, इंग्रजी, मराठी, किंवा गुजराती?",
	ContinueLanguage:       "आपण मराठीतून सुरू ठेवू शकता.",
	HowHelp:                "मी आज आपली कशी मदत करू शकतो?",
	ClaimPrompt:            "मी दावा सुरू करण्यात किंवा पॉलिसी पीडीएफ मिळवण्यात मदत करू शकतो. कृपया असे काही सांगा 'मला दावा सुरू करायचा आहे' किंवा 'मला माझी पॉलिसी पीडीएफ डाउनलोड करायची आहे.'",
	MobilePrompt:           "कृपया आपला मोबाइल नंबर द्या.",
	MobileRegistered:       "धन्यवाद. हा नंबर आमच्याकडे नोंदणीकृत आहे.",
	MobileUnregistered:     "हा नंबर आमच्याकडे नोंदणीकृत नाही असे दिसते.",
	PolicyListHeader:       "आपल्याकडे खालील पॉलिसी आहेत:",
	PolicyItem:             "पॉलिसी %s",
	PolicyPrompt:           "आपण कोणत्या पॉलिसीसाठी पुढे जाऊ इच्छिता?",
	PolicyNumberPrompt:     "कृपया आपला पॉलिसी नंबर सांगा.",
	FetchPolicy:            "पॉलिसी तपशील आणत आहे, कृपया प्रतीक्षा करा...",
	OTPRegistered:          "आम्ही आपल्या नोंदणीकृत मोबाइलवर OTP पाठवला आहे. कृपया 6 अंकीय OTP द्या.",
	OTPUnregistered:        "आम्ही आपल्या मोबाइल नंबरवर OTP पाठवला आहे. कृपया 6 अंकीय OTP सांगा.",
	DatePrompt:             "कृपया मला अपघाताची तारीख सांगा.",
	TimePrompt:             "कृपया मला अपघाताचा वेळ सांगा.",
	CityPrompt:             "कृपया मला सांगा की अपघात कोणत्या शहरात झाला?",
	StatePrompt:            "कृपया मला सांगा की अपघात कोणत्या राज्यात झाला?",
	DriverPrompt:           "धन्यवाद. गाडी कोण चालवत होता?",
	AskEmail:               "कृपया आपला ईमेल आयडी सांगा.",
	EmailConfirm:           "कृपया पुष्टी करा, हा तुमचा ईमेल आहे का: %s? (होय/नाही)",
	ClaimSuccess:           "✅ आपला दावा यशस्वीपणे सुरू झाला आहे.",
	ClaimReference:         "दावा क्रमांक: %s",
	FinalData:              "📄 अंतिम संरचित डेटा:",
	OTPEmail:               "आम्ही तुमच्या ईमेलवर OTP पाठवला आहे. कृपया OTP प्रविष्ट करा.",
	OTPVerificationSuccess: "तुमचा OTP यशस्वीपणे पडताळला गेला आहे आणि नोंदणीकृत ईमेल यशस्वीपणे अपडेट केला आहे. आम्ही तुमची पॉलिसी PDF तुमच्या नोंदणीकृत ईमेलवर पाठवली आहे.",
	OTPVerificationFailed:  "OTP पडताळणी अयशस्वी. CRM API कॉल करून ईमेल ID अपडेट करत आहोत आणि PDF पाठवत आहोत.",
	NoEmailNoPDF:           "ईमेल पत्ता न दिल्यास पॉलिसी PDF पाठवता येणार नाही.",
	EndFlow:                "SBI जनरल इन्शुरन्समध्ये संपर्क केल्याबद्दल धन्यवाद. शुभेच्छा!",
	RepeatPrompt:           "मला ते समजलं नाही. कृपया आपलं %s पुन्हा सांगा.",
	InvalidInput:           "माफ करा, मला ते समजले नाही. कृपया पुन्हा प्रयत्न करा.",
	HealthPolicyRedirect:   "ही एक आरोग्य पॉलिसी आहे. कृपया आरोग्य दावा प्रक्रियेचा वापर करा.",
	AMPMClarify:            "तुम्हाला AM की PM म्हणायचे आहे का?",
	AMPMInvalid:            "'AM' किंवा 'PM' असे उत्तर द्या.",
	InvalidMobile:          "कृपया 10 अंकी वैध मोबाइल नंबर द्या.",
	PDFSent:                "पॉलिसी पीडीएफ तुमच्या ईमेलवर पाठवली आहे.",
}

var gujarati = Strings{
	Welcome:                "🤖 નમસ્તે, SBI જનરલ ઇન્સ્યોરન્સમાં તમારું સ્વાગત છે.",
	ChooseLanguage:         "તમે કઈ ભાષામાં આગળ વધવા માંગો છો? હિન્દી, અંગ્રેજી, મરાઠી, કે ગુજરાતી?",
	ContinueLanguage:       "તમે ગુજરાતીમાં આગળ વધી શકો છો.",
	HowHelp:                "હું આજે તમારી કેવી રીતે મદદ કરી શકું?",
	ClaimPrompt:            "હું દાવો શરૂ કરવામાં કે પોલિસી પીડીએફ મેળવવામાં મદદ કરી શકું છું. કૃપા કરીને 'હું દાવો શરૂ કરવા માંગું છું' કે 'હું મારી પોલિસી પીડીએફ ડાઉનલોડ કરવા માંગું છું' જેવું કંઈક કહો.",
	MobilePrompt:           "કૃપા કરીને તમારો મોબાઇલ નંબર આપો.",
	MobileRegistered:       "આભાર. આ નંબર અમારી પાસે નોંધાયેલો છે.",
	MobileUnregistered:     "આ નંબર અમારી પાસે નોંધાયેલો નથી લાગતો.",
	PolicyListHeader:       "તમારી પાસે નીચેની પોલિસી છે:",
	PolicyItem:             "પોલિસી %s",
	PolicyPrompt:           "તમે કઈ પોલિસી સાથે આગળ વધવા માંગો છો?",
	PolicyNumberPrompt:     "કૃપા કરીને તમારો પોલિસી નંબર આપો.",
	FetchPolicy:            "પોલિસી વિગતો મેળવી રહ્યો છું, કૃપા કરીને રાહ જુઓ...",
	OTPRegistered:          "તમારા નોંધાયેલા મોબાઇલ પર OTP મોકલવામાં આવ્યો છે. કૃપા કરીને 6 અંકનો OTP આપો.",
	OTPUnregistered:        "તમારા મોબાઇલ નંબર પર OTP મોકલવામાં આવ્યો છે. કૃપા કરીને 6 અંકનો OTP આપો.",
	DatePrompt:             "કૃપા કરીને મને અકસ્માતની તારીખ જણાવો.",
	TimePrompt:             "કૃપા કરીને મને અકસ્માતનો સમય જણાવો.",
	CityPrompt:             "કૃપા કરીને મને જણાવો કે અકસ્માત કયા શહેરમાં થયો હતો.",
	StatePrompt:            "કૃપા કરીને મને જણાવો કે અકસ્માત કયા રાજ્યમાં થયો હતો.",
	DriverPrompt:           "આભાર. કાર કોણ ચલાવી રહ્યું હતું?",
	AskEmail:               "કૃપા કરીને તમારું ઇમેઇલ આઈડી આપો.",
	EmailConfirm:           "કૃપા કરીને પુષ્ટિ કરો, શું આ તમારું ઇમેઇલ છે: %s? (હા/ના)",
	ClaimSuccess:           "✅ તમારો દાવો સફળતાપૂર્વક શરૂ થયો છે.",
	ClaimReference:         "દાવા નંબર: %s",
	FinalData:              "📄 અંતિમ સંરચિત ડેટા:",
	OTPEmail:               "અમે તમારા ઇમેઇલ પર OTP મોકલ્યો છે. કૃપા કરીને OTP દાખલ કરો.",
	OTPVerificationSuccess: "તમારો OTP સફળતાપૂર્વક ચકાસાયો છે અને નોંધાયેલું ઇમેઇલ સફળતાપૂર્વક અપડેટ થયું છે. અમે તમારી પોલિસી PDF તમારા નોંધાયેલા ઇમેઇલ પર મોકલી દીધી છે.",
	OTPVerificationFailed:  "OTP ચકાસણી અસફળ રહી. CRM API ને કૉલ કરીને ઇમેઇલ આઈડી અપડેટ કરી રહ્યા છીએ અને PDF મોકલી રહ્યા છીએ.",
	NoEmailNoPDF:           "ઇમેઇલ આઈડી વિના પોલિસી PDF મોકલી શકાતી નથી.",
	EndFlow:                "SBI જનરલ ઇન્સ્યોરન્સનો સંપર્ક કરવા બદલ આભાર. શુભ દિવસ!",
	RepeatPrompt:           "મને તે સમજાયું નહીં. કૃપા કરીને તમારું %s ફરીથી કહો.",
	InvalidInput:           "માફ કરશો, મને તે સમજાયું નહીં. કૃપા કરીને ફરીથી પ્રયાસ કરો.",
	HealthPolicyRedirect:   "આ એક આરોગ્ય પોલિસી છે. કૃપા કરીને આરોગ્ય દાવો પ્રક્રિયાનો ઉપયોગ કરો.",
	AMPMClarify:            "શું તમે AM કે PM કહેવા માંગો છો?",
	AMPMInvalid:            "'AM' અથવા 'PM' સાથે જવાબ આપો.",
	InvalidMobile:          "કૃપા કરીને 10 અંકનો માન્ય મોબાઇલ નંબર દાખલ કરો.",
	PDFSent:                "પોલિસી પીડીએફ તમારા ઇમેઇલ પર મોકલવામાં આવી છે.",
}
