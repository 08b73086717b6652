package email

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is the base payload shared by all templates. Values are
// substituted through html/template, so user-supplied fields (property
// titles, names) cannot alter template structure.
type TemplateData struct {
	UserName     string
	Subject      string
	Message      string
	ActionURL    string
	ActionText   string
	SupportEmail string
	CompanyName  string
}

// PropertyMatchData feeds the property_match template.
type PropertyMatchData struct {
	TemplateData
	PropertyTitle string
	City          string
	PriceText     string
}

// SubscriptionData feeds the subscription_expiring and subscription_expired
// templates.
type SubscriptionData struct {
	TemplateData
	DaysRemaining int
}

// Config holds SMTP transport settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	UseTLS       bool
	Timeout      int // seconds, bounds one send
	TemplatePath string
}

// Sender is the delivery gateway contract consumed by the notification
// dispatcher. A failed send is reported to the caller and logged; it never
// affects the persisted in-app notification.
type Sender interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data interface{}) error
	SendNotification(to, subject, message string) error
	SendPropertyMatch(to, userName, propertyTitle, city, priceText, actionURL string) error
	SendSubscriptionExpiring(to, userName string, daysRemaining int) error
	SendSubscriptionExpired(to, userName string) error
}
