package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRecordsLoaded      EventType = "RecordsLoaded"
	EventCandidatesLoaded   EventType = "CandidatesLoaded"
	EventRateLoaded         EventType = "RateLoaded"
	EventQuoteCalculated    EventType = "QuoteCalculated"
	EventQuoteSaved         EventType = "QuoteSaved"
	EventQuoteApproved      EventType = "QuoteApproved"
	EventQuoteRejected      EventType = "QuoteRejected"
	EventOrdersBatchEdited  EventType = "OrdersBatchEdited"
	EventOrdersBatchDeleted EventType = "OrdersBatchDeleted"
	EventCustomerCreated    EventType = "CustomerCreated"
	EventAssetCreated       EventType = "AssetCreated"
	EventThemeChanged       EventType = "ThemeChanged"
	EventError              EventType = "Error"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
	EventConfigChanged      EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// Source names the collection a set of records came from
type Source string

const (
	SourceCatalog Source = "catalog"
	SourceOrders  Source = "orders"
	SourceQuotes  Source = "quotes"
	SourceDemo    Source = "demo"
)

// RecordsLoadedEvent carries a fresh collection for one source.
// Stale is set when the records were served from the offline cache.
type RecordsLoadedEvent struct {
	Source  Source
	Records []Record
	Page    *OrderPage
	Stale   bool
}

func (e RecordsLoadedEvent) Type() EventType { return EventRecordsLoaded }

// CandidatesLoadedEvent carries the combobox vocabularies
type CandidatesLoadedEvent struct {
	Customers []string
	Assets    []Asset
}

func (e CandidatesLoadedEvent) Type() EventType { return EventCandidatesLoaded }

// RateLoadedEvent carries the exchange rate shown in the calculator
type RateLoadedEvent struct {
	Rate ExchangeRate
}

func (e RateLoadedEvent) Type() EventType { return EventRateLoaded }

// QuoteCalculatedEvent is emitted when the backend prices a quote
type QuoteCalculatedEvent struct {
	Request QuoteRequest
	Result  QuoteResult
}

func (e QuoteCalculatedEvent) Type() EventType { return EventQuoteCalculated }

// QuoteSavedEvent is emitted after a quote is persisted
type QuoteSavedEvent struct {
	QuoteID int
}

func (e QuoteSavedEvent) Type() EventType { return EventQuoteSaved }

// QuoteApprovedEvent is emitted when a quote becomes an order
type QuoteApprovedEvent struct {
	Approval Approval
}

func (e QuoteApprovedEvent) Type() EventType { return EventQuoteApproved }

// QuoteRejectedEvent is emitted when a pending quote is rejected
type QuoteRejectedEvent struct {
	QuoteID int
}

func (e QuoteRejectedEvent) Type() EventType { return EventQuoteRejected }

// OrdersBatchEditedEvent is emitted after a batch edit
type OrdersBatchEditedEvent struct {
	Result BatchResult
}

func (e OrdersBatchEditedEvent) Type() EventType { return EventOrdersBatchEdited }

// OrdersBatchDeletedEvent is emitted after a batch delete
type OrdersBatchDeletedEvent struct {
	Result BatchResult
}

func (e OrdersBatchDeletedEvent) Type() EventType { return EventOrdersBatchDeleted }

// CustomerCreatedEvent is emitted when the add-new entry creates a customer
type CustomerCreatedEvent struct {
	Customer Customer
}

func (e CustomerCreatedEvent) Type() EventType { return EventCustomerCreated }

// AssetCreatedEvent is emitted when the add-new entry creates an asset
type AssetCreatedEvent struct {
	Asset Asset
}

func (e AssetCreatedEvent) Type() EventType { return EventAssetCreated }

// ThemeChangedEvent is emitted when the active theme changes
type ThemeChangedEvent struct {
	Theme string
}

func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when the configuration file changed on disk
// or a setting needs to be persisted
type ConfigChangedEvent struct {
	Path string
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
