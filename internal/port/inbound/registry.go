package inbound

// InboundPorts holds all inbound port implementations.
// Inbound ports define how external actors interact with the application.
type InboundPorts struct {
	Session   SessionHttpPort
	AuthFlow  AuthFlowHttpPort
	Team      TeamHttpPort
	Inbox     InboxHttpPort
	Account   AccountHttpPort
	Feedback  FeedbackHttpPort
	Dashboard DashboardHttpPort
}
