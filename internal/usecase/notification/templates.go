package notification

import (
	"fmt"
	"html"

	"dog-grooming-booking/internal/domain/booking"
)

type content struct {
	subject string
	text    string
	html    string
}

const scheduleLayout = "Monday, January 2, 2006 at 3:04 PM MST"

func verificationCodeEmail(app, name, code string) *content {
	return &content{
		subject: fmt.Sprintf("Verify your %s account", app),
		text: fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 15 minutes.\n\n"+
			"If you didn't create an account with us, please ignore this email.", name, code),
		html: fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Hi %s,</p>
		<p>Your verification code is: <strong style="font-size: 24px;">%s</strong></p>
		<p>This code will expire in 15 minutes.</p>
		<p>If you didn't create an account with us, please ignore this email.</p>
	`, html.EscapeString(name), html.EscapeString(code)),
	}
}

func welcomeEmail(app, name string) *content {
	return &content{
		subject: fmt.Sprintf("Welcome to %s", app),
		text:    fmt.Sprintf("Hi %s,\n\nYour email is verified. You can now book grooming appointments.", name),
		html: fmt.Sprintf(`
		<h2>Welcome to %s!</h2>
		<p>Hi %s,</p>
		<p>Your email is verified. You can now book grooming appointments.</p>
	`, html.EscapeString(app), html.EscapeString(name)),
	}
}

func resetLinkEmail(app, link string) *content {
	return &content{
		subject: fmt.Sprintf("Reset your %s password", app),
		text:    fmt.Sprintf("Use this link to reset your password: %s\n\nThe link expires in 15 minutes.", link),
		html: fmt.Sprintf(`
		<h2>Password reset</h2>
		<p>Click the link below to choose a new password:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>The link expires in 15 minutes. If you didn't request this, you can ignore this email.</p>
	`, html.EscapeString(link)),
	}
}

func resetSuccessEmail(app string) *content {
	return &content{
		subject: fmt.Sprintf("Your %s password was changed", app),
		text:    "Your password has been reset successfully. If this wasn't you, contact us immediately.",
		html: `
		<h2>Password reset successful</h2>
		<p>Your password has been reset successfully.</p>
		<p>If this wasn't you, contact us immediately.</p>
	`,
	}
}

func bookingStatusEmail(app, name string, b *booking.Booking) *content {
	when := b.Schedule.Format(scheduleLayout)
	return &content{
		subject: fmt.Sprintf("Your %s booking is %s", app, b.Status),
		text: fmt.Sprintf("Hi %s,\n\nYour %s booking for your %s on %s is now %s.",
			name, b.Service, b.DogCategory, when, b.Status),
		html: fmt.Sprintf(`
		<h2>Booking update</h2>
		<p>Hi %s,</p>
		<p>Your <strong>%s</strong> booking for your %s on %s is now <strong>%s</strong>.</p>
	`, html.EscapeString(name), html.EscapeString(b.Service), html.EscapeString(b.DogCategory), when, b.Status),
	}
}

func reminderEmail(app, name string, b *booking.Booking) *content {
	when := b.Schedule.Format(scheduleLayout)
	return &content{
		subject: fmt.Sprintf("Reminder: your %s appointment tomorrow", app),
		text: fmt.Sprintf("Hi %s,\n\nThis is a reminder of your %s appointment for your %s on %s.",
			name, b.Service, b.DogCategory, when),
		html: fmt.Sprintf(`
		<h2>Appointment reminder</h2>
		<p>Hi %s,</p>
		<p>This is a reminder of your <strong>%s</strong> appointment for your %s on %s.</p>
	`, html.EscapeString(name), html.EscapeString(b.Service), html.EscapeString(b.DogCategory), when),
	}
}
