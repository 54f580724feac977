package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is recommended as fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the welcome email enqueued after a successful registration.
func WelcomeJob(to, fullname string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to Tasky",
		Text: "Hi " + fullname + ",\n\n" +
			"Your Tasky account is ready. Sign in and start organizing your tasks.\n\n" +
			"— The Tasky team",
	}
}
