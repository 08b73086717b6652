package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	AlertHandler        *AlertHandler
	PropertyHandler     *PropertyHandler
	NotificationHandler *NotificationHandler
	AnalyticsHandler    *AnalyticsHandler
}
