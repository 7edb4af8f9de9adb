package content

// PhishingTemplate is a static fallback email used when the generative
// provider fails or returns a malformed payload.
type PhishingTemplate struct {
	Subject      string
	Sender       string
	SenderName   string
	Content      string
	AttackVector string
	Triggers     []string
}

var phishingTemplates = map[int]PhishingTemplate{
	1: {
		Subject:      "Account Security Alert",
		Sender:       "security@company-alerts.com",
		SenderName:   "IT Security",
		Content:      "Your account requires immediate verification. Click here to secure your account.",
		AttackVector: "credential_harvest",
		Triggers:     []string{"urgency"},
	},
	2: {
		Subject:      "Action Required: Password Expires Today",
		Sender:       "helpdesk@corp-support.net",
		SenderName:   "Help Desk",
		Content:      "Your password expires at 5pm today. Reset it now using the portal below to avoid losing access.",
		AttackVector: "credential_harvest",
		Triggers:     []string{"urgency", "fear"},
	},
	3: {
		Subject:      "Updated Payroll Schedule Attached",
		Sender:       "hr-notices@payroll-center.com",
		SenderName:   "Human Resources",
		Content:      "Please review the attached payroll schedule before Friday. Sign in with your company credentials to open the document.",
		AttackVector: "credential_harvest",
		Triggers:     []string{"curiosity", "trust"},
	},
	4: {
		Subject:      "Re: Invoice discrepancy - urgent",
		Sender:       "accounts@vendor-billing.co",
		SenderName:   "Accounts Receivable",
		Content:      "Following up on the invoice discrepancy we discussed. The corrected invoice is attached; please confirm payment details today.",
		AttackVector: "business_email_compromise",
		Triggers:     []string{"urgency", "trust"},
	},
	5: {
		Subject:      "CEO request - confidential",
		Sender:       "exec-office@company-mail.net",
		SenderName:   "Office of the CEO",
		Content:      "I need you to handle a confidential wire transfer before end of day. Reply immediately - I'm in meetings and can only be reached by email.",
		AttackVector: "business_email_compromise",
		Triggers:     []string{"authority", "urgency", "fear"},
	},
}

// FallbackPhishingTemplate returns the static template for a difficulty
// level, clamped to the valid [1,5] range.
func FallbackPhishingTemplate(difficulty int) PhishingTemplate {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	return phishingTemplates[difficulty]
}
