package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	AlertService        AlertService
	PropertyService     PropertyService
	MatchingService     MatchingService
	NotificationService NotificationService
	FanoutService       FanoutService
	AnalyticsService    AnalyticsService
}
