package i18n

import (
	"strconv"
	"strings"
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type emailStrings struct {
	WelcomeSubject string
	WelcomeText    string
	WelcomeHTML    string

	VerifyOTPSubject string
	VerifyOTPText    string
	VerifyOTPHTML    string

	ResetOTPSubject string
	ResetOTPText    string
	ResetOTPHTML    string
}

var emailTranslations = map[string]emailStrings{
	"en": {
		WelcomeSubject: "Welcome! Your account has been created",
		WelcomeText:    "Your account has been created with the email address {email}.",
		WelcomeHTML: "<p>Welcome!</p>" +
			"<p>Your account has been created with the email address <strong>{email}</strong>.</p>" +
			"<p>If this wasn't you, please contact support.</p>",

		VerifyOTPSubject: "Account verification OTP",
		VerifyOTPText:    "Your verification code is {code}. It is valid for {minutes} minutes.",
		VerifyOTPHTML: "<p>Verify your account</p>" +
			"<p>Use the code below to verify your email address.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>The code expires in {minutes} minutes.</p>" +
			"<p>If you did not request this, you can ignore this email.</p>",

		ResetOTPSubject: "Password reset OTP",
		ResetOTPText:    "Your password reset code is {code}. It is valid for {minutes} minutes.",
		ResetOTPHTML: "<p>Password reset</p>" +
			"<p>Use the code below to reset your password.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>The code expires in {minutes} minutes.</p>" +
			"<p>If you did not request this, ignore this email.</p>",
	},
	"de": {
		WelcomeSubject: "Willkommen! Ihr Konto wurde erstellt",
		WelcomeText:    "Ihr Konto wurde mit der E-Mail-Adresse {email} erstellt.",
		WelcomeHTML: "<p>Willkommen!</p>" +
			"<p>Ihr Konto wurde mit der E-Mail-Adresse <strong>{email}</strong> erstellt.</p>" +
			"<p>Wenn Sie das nicht waren, kontaktieren Sie bitte den Support.</p>",

		VerifyOTPSubject: "OTP zur Kontoverifizierung",
		VerifyOTPText:    "Ihr Verifizierungscode ist {code}. Er ist {minutes} Minuten gültig.",
		VerifyOTPHTML: "<p>Konto verifizieren</p>" +
			"<p>Verwenden Sie den untenstehenden Code, um Ihre E-Mail zu verifizieren.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>Der Code ist in {minutes} Minuten abgelaufen.</p>" +
			"<p>Wenn Sie dies nicht angefordert haben, können Sie diese E-Mail ignorieren.</p>",

		ResetOTPSubject: "OTP zum Zurücksetzen des Passworts",
		ResetOTPText:    "Ihr Code zum Zurücksetzen des Passworts ist {code}. Er ist {minutes} Minuten gültig.",
		ResetOTPHTML: "<p>Passwort zurücksetzen</p>" +
			"<p>Verwenden Sie den untenstehenden Code, um Ihr Passwort zurückzusetzen.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>Der Code ist in {minutes} Minuten abgelaufen.</p>" +
			"<p>Wenn Sie dies nicht angefordert haben, ignorieren Sie diese E-Mail.</p>",
	},
}

func emailStringsForLocale(locale string) emailStrings {
	key := NormalizeLocale(locale)
	if val, ok := emailTranslations[key]; ok {
		return val
	}
	return emailTranslations[DefaultLocale]
}

func renderTemplate(tmpl string, values map[string]string) string {
	if tmpl == "" || len(values) == 0 {
		return tmpl
	}

	replacements := make([]string, 0, len(values)*2)
	for key, value := range values {
		replacements = append(replacements, "{"+key+"}", value)
	}
	return strings.NewReplacer(replacements...).Replace(tmpl)
}

func WelcomeEmail(locale, emailAddr string) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{"email": emailAddr}
	return EmailContent{
		Subject: templates.WelcomeSubject,
		Text:    renderTemplate(templates.WelcomeText, values),
		HTML:    renderTemplate(templates.WelcomeHTML, values),
	}
}

func VerifyOTPEmail(locale, code string, minutes int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"code":    code,
		"minutes": strconv.Itoa(minutes),
	}
	return EmailContent{
		Subject: templates.VerifyOTPSubject,
		Text:    renderTemplate(templates.VerifyOTPText, values),
		HTML:    renderTemplate(templates.VerifyOTPHTML, values),
	}
}

func ResetOTPEmail(locale, code string, minutes int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"code":    code,
		"minutes": strconv.Itoa(minutes),
	}
	return EmailContent{
		Subject: templates.ResetOTPSubject,
		Text:    renderTemplate(templates.ResetOTPText, values),
		HTML:    renderTemplate(templates.ResetOTPHTML, values),
	}
}
