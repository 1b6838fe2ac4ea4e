package event

import "fmt"

var typeToName = map[EventType]string{
	EventTick:               "Tick",
	EventLoadComplete:       "LoadComplete",
	EventSourceCreated:      "SourceCreated",
	EventSourcesCreated:     "SourcesCreated",
	EventSettingsChanged:    "SettingsChanged",
	EventEvaporationSpike:   "EvaporationSpike",
	EventSystemCommand:      "SystemCommand",
	EventCalibrationWarning: "CalibrationWarning",
	EventAutofillComplete:   "AutofillComplete",
}

// String returns the registered name of the event type
func (et EventType) String() string {
	if name, ok := typeToName[et]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(et))
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	for et, n := range typeToName {
		if n == name {
			return et, true
		}
	}
	return 0, false
}
