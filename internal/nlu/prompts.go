package nlu

import (
	"fmt"
	"strings"
	"time"
)

const header = "You post-process voicebot transcripts for SBI General Insurance callers.\n"

func datePreamble(now time.Time) string {
	return fmt.Sprintf("Today's date is %s.\n", now.Format("02 January 2006"))
}

func onlyField(field string) string {
	return fmt.Sprintf("Extract only the field **%s** from the user input.\n"+
		"Reply with a single JSON object: {\"%s\": \"<value>\"} or {\"%s\": null}. No other text.\n\n",
		field, field, field)
}

const spokenDigits = `- Callers may speak digits in English ("one two three"), Hindi ("एक दो तीन"), Marathi ("एक दोन तीन") or Gujarati ("એક બે ત્રણ"), mixed with numerals ("one 2 three").
- "double X" means XX and "triple X" means XXX.
- Chunked groups are concatenated in order ("123 456" -> "123456"), separators are ignored.
`

var promptBuilders = map[string]func(now time.Time) string{
	"policy_number": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("policy_number") +
			"- A policy number has exactly 8 digits.\n" + spokenDigits +
			`- Return null for any other length or for non-numeric input.
Examples:
"one two three four five six seven eight" -> {"policy_number": "12345678"}
"पॉलिसी नंबर एक 1 तीन 4 पांच 6 सात 8" -> {"policy_number": "11345678"}
"100 00001" -> {"policy_number": "10000001"}
"I forgot it" -> {"policy_number": null}
`
	},
	"otp": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("otp") +
			"- An OTP has exactly 6 digits.\n" + spokenDigits +
			`- Whole numbers in words are converted ("पाँच लाख सड़सठ हज़ार आठ सौ तैंतालीस" -> "567843").
Examples:
"one 2 three 4 five 6" -> {"otp": "123456"}
"double one 2 three 4 five" -> {"otp": "112345"}
"એક બે ત્રણ ચાર પાંચ છ" -> {"otp": "123456"}
"123-456" -> {"otp": "123456"}
`
	},
	"mobile_number": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("mobile_number") +
			"- A mobile number has exactly 10 digits.\n" + spokenDigits +
			`Examples:
"double one 2 three 4 five 6 seven 8 nine" -> {"mobile_number": "1123456789"}
"एक दोन तीन चार पाच सहा सात आठ नऊ शून्य" -> {"mobile_number": "1234567890"}
"123 456 7890" -> {"mobile_number": "1234567890"}
`
	},
	"date_of_accident": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("date_of_accident") +
			`- Return the date as DD/MM/YYYY.
- Absolute dates ("16 December 2024", "16/12/2024") and relative ones ("yesterday", "5 days ago") are both valid; resolve relative dates against today.
- Relative words: Hindi "कल" yesterday, "परसों" day before yesterday, "आज" today; Marathi "काल", "परवा", "आज"; Gujarati "ગઈકાલ", "પરમ દિવસ", "આજ".
Examples:
"sixteen December twenty twenty-four" -> {"date_of_accident": "16/12/2024"}
"सोलह दिसंबर दो हज़ार चौबीस" -> {"date_of_accident": "16/12/2024"}
"સોળ ડિસેમ્બર બે હજાર ચોવીસ" -> {"date_of_accident": "16/12/2024"}
`
	},
	"time_of_accident": func(now time.Time) string {
		return fmt.Sprintf("Today's date is %s and the current time is %s.\n", now.Format("02 January 2006"), now.Format("15:04:05")) +
			header +
			`Extract the fields **time_of_accident** and **am_pm** from the user input.
Reply with a single JSON object holding both fields. No other text.

- time_of_accident is "HH:MM:00" on a 12-hour clock.
- "5 PM", "530 evening" and "515" are valid; three digits read as HMM ("515" -> "05:15:00").
- A 24-hour hour such as "16" becomes "04:00:00" with am_pm "PM".
- Relative times ("an hour ago") are computed from the current time.
- am_pm is "AM" or "PM" when the caller says so or gives context (morning, सुबह, સવાર -> AM; evening, night, शाम, રાત -> PM); otherwise null.
Examples:
"530 evening" -> {"time_of_accident": "05:30:00", "am_pm": "PM"}
"सुबह दस बजे" -> {"time_of_accident": "10:00:00", "am_pm": "AM"}
"13" -> {"time_of_accident": "01:00:00", "am_pm": "PM"}
"4" -> {"time_of_accident": "04:00:00", "am_pm": null}
`
	},
	"am_pm": func(now time.Time) string {
		return header + onlyField("am_pm") +
			`- Valid values are "AM" and "PM".
- Accept explicit words and time-of-day context in any supported language, or a 24-hour time ("13:00" -> PM, "00:30" -> AM).
Examples:
"AM" -> {"am_pm": "AM"}
"evening" -> {"am_pm": "PM"}
"रात को" -> {"am_pm": "PM"}
`
	},
	"city_of_accident": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("city_of_accident") +
			`- Return the city name in English with a capital letter.
Examples:
"Mumbai" -> {"city_of_accident": "Mumbai"}
"मुंबई" -> {"city_of_accident": "Mumbai"}
"મુંબઈ" -> {"city_of_accident": "Mumbai"}
`
	},
	"state_of_accident": func(now time.Time) string {
		return datePreamble(now) + header + onlyField("state_of_accident") +
			`- Return the Indian state name in English with a capital letter.
- Never infer the state from a city.
Examples:
"महाराष्ट्र" -> {"state_of_accident": "Maharashtra"}
"મહારાષ્ટ્ર" -> {"state_of_accident": "Maharashtra"}
`
	},
	"who_driver": func(now time.Time) string {
		return header + onlyField("who_driver") +
			`- "owner" when the caller was driving ("I was driving", "मैं चला रहा था", "मी गाडी चालवत होतो", "હું ચલાવતો હતો").
- "driver" when a hired or professional driver was driving ("chauffeur", "ड्राइवर", "ड्रायव्हर", "ડ્રાઈવર").
- "no one" when the car was parked, the caller does not know, or someone else such as a family member was driving.
Examples:
"the driver" -> {"who_driver": "driver"}
"गाड़ी खड़ी थी" -> {"who_driver": "no one"}
"my mother" -> {"who_driver": "no one"}
`
	},
	"email_id": func(now time.Time) string {
		return header + onlyField("email_id") +
			`- Rebuild the email address the caller spelled out, including spoken symbols ("at the rate", "dot", "underscore") and transliterated Indian-language words.
Examples:
"vinay underscore rathod at the rate yahoo dot co dot in" -> {"email_id": "vinay_rathod@yahoo.co.in"}
"शाह डॉट अमित एट रेडिफ डॉट कॉम" -> {"email_id": "shah.amit@rediff.com"}
`
	},
}

// BuildPrompt renders the extraction prompt for field as of now. Unknown
// fields get a generic single-field prompt.
func BuildPrompt(field string, now time.Time, utterance, language string) string {
	var sb strings.Builder
	if build, ok := promptBuilders[field]; ok {
		sb.WriteString(build(now))
	} else {
		sb.WriteString(datePreamble(now) + header + onlyField(field))
	}
	sb.WriteString("\nUser input: ")
	sb.WriteString(utterance)
	sb.WriteString("\nLanguage: ")
	sb.WriteString(language)
	return sb.String()
}
