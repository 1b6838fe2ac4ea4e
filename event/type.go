package event

// EventType represents the type of simulation event
type EventType int

const (
	// EventTick is reserved, never pushed
	EventTick EventType = iota

	// === Lifecycle ===

	// EventLoadComplete signals that the host finished loading a map or snapshot
	// Trigger: Simulation.LoadComplete, Simulation.Load
	// Consumer: ClassifierSystem, DisableSystem, TidesSystem | Payload: nil
	EventLoadComplete

	// EventSourceCreated signals interactive creation of one source
	// Trigger: Simulation.CreateSource
	// Consumer: ClassifierSystem, CalibrationSystem | Payload: *SourceCreatedPayload
	EventSourceCreated

	// EventSourcesCreated signals bulk creation (map import)
	// Trigger: Simulation.CreateSources
	// Consumer: ClassifierSystem, CalibrationSystem | Payload: *BatchPayload[core.Entity]
	EventSourcesCreated

	// EventSettingsChanged carries the settings that take effect at the next tick boundary
	// Trigger: Simulation.ApplySettings
	// Consumer: ClassifierSystem, DisableSystem, TunerSystem | Payload: *SettingsChangedPayload
	EventSettingsChanged

	// === Requests ===

	// EventEvaporationSpike requests a temporary evaporation rate
	// Trigger: Simulation.RequestEvaporationSpike
	// Consumer: TunerSystem | Payload: *EvaporationSpikePayload
	EventEvaporationSpike

	// EventSystemCommand enables or disables a system by name
	// Trigger: monitor, tests
	// Consumer: all systems | Payload: *SystemCommandPayload
	EventSystemCommand

	// === Notifications ===

	// EventCalibrationWarning reports a source that could not be calibrated within budget
	// Trigger: CalibrationSystem | Payload: *CalibrationWarningPayload
	EventCalibrationWarning

	// EventAutofillComplete reports the terminal transition of an autofilling lake
	// Trigger: AutofillLakeSystem | Payload: *AutofillCompletePayload
	EventAutofillComplete
)

// SimEvent is one queued event with the host frame it was produced on
type SimEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
