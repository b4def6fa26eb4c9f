package generator

// MeasurementData is the JSON payload of a generated measurement event
type MeasurementData struct {
	DeviceID    string  `json:"deviceId"`
	PatientName string  `json:"patientName"`
	SpO2        int     `json:"spo2"`
	PulseRate   int     `json:"pulseRate"`
	Perfusion   float64 `json:"perfusionIndex"`
	Ward        string  `json:"ward"`
}

// Content types of generated payloads
const (
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
)
