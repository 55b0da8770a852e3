package notify

import "fmt"

// LeadEmailData carries the validated submission fields that appear in lead
// emails. Message bodies are built deterministically from these fields alone.
type LeadEmailData struct {
	Name           string
	Email          string
	StoreURL       string
	MonthlyRevenue string
	Message        string
}

// LeadNotification builds the operator-facing email for a new lead.
func LeadNotification(data LeadEmailData, to string) EmailMessage {
	storeLine := "Store URL: not provided"
	storeRow := ""
	if data.StoreURL != "" {
		storeLine = fmt.Sprintf("Store URL: %s", data.StoreURL)
		storeRow = fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Store:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="%s">%s</a></td></tr>`, data.StoreURL, data.StoreURL)
	}

	body := fmt.Sprintf(`New Sniff Check request!

Name: %s
Email: %s
%s
Monthly Revenue: %s

Message:
%s

— Sniff Check`, data.Name, data.Email, storeLine, data.MonthlyRevenue, data.Message)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #10b981;">🐽 New Sniff Check Request</h2>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Name:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Email:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="mailto:%s">%s</a></td></tr>
  %s<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Monthly Revenue:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
</table>
<p style="background: #f9fafb; padding: 12px; border-radius: 8px; white-space: pre-wrap;">%s</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— Sniff Check</p>
</div>`,
		data.Name, data.Email, data.Email, storeRow, data.MonthlyRevenue, data.Message)

	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New Sniff Check lead: %s (%s)", data.Name, data.MonthlyRevenue),
		Body:    body,
		HTML:    html,
	}
}

// LeadConfirmation builds the client-facing confirmation email.
func LeadConfirmation(data LeadEmailData) EmailMessage {
	body := fmt.Sprintf(`Hi %s,

Thanks for requesting your free Sniff Check! We've received your details and
will take a first look at your store within one business day.

In the meantime, feel free to reply to this email with anything else you'd
like us to look at.

— The Sniff Check team`, data.Name)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #10b981;">Your Sniff Check is on its way 🐽</h2>
<p>Hi %s,</p>
<p>Thanks for requesting your free Sniff Check! We've received your details and will take a first look at your store within one business day.</p>
<p>In the meantime, feel free to reply to this email with anything else you'd like us to look at.</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">— The Sniff Check team</p>
</div>`, data.Name)

	return EmailMessage{
		To:      data.Email,
		ToName:  data.Name,
		Subject: "We got your Sniff Check request",
		Body:    body,
		HTML:    html,
	}
}
