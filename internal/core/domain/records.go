package domain

import "encoding/json"

// Record is a hydrated API object. Raw returns the exact JSON object it was
// decoded from; JSON and YAML rendering print Raw rather than the typed view.
// The typed view is best effort: a field whose value has an unexpected type
// stays zero instead of failing the record.
type Record interface {
	RecordID() string
	Raw() json.RawMessage
}

// Detection is a detection summary from /detects/entities/summaries/GET/v1.
type Detection struct {
	DetectionID            string              `json:"detection_id"`
	Status                 string              `json:"status"`
	MaxSeverity            int                 `json:"max_severity"`
	MaxSeverityDisplayName string              `json:"max_severity_displayname"`
	FirstBehavior          string              `json:"first_behavior"`
	LastBehavior           string              `json:"last_behavior"`
	Device                 DetectionDevice     `json:"device"`
	Behaviors              []DetectionBehavior `json:"behaviors"`

	raw json.RawMessage
}

// DetectionDevice is the host a detection fired on.
type DetectionDevice struct {
	DeviceID   string `json:"device_id"`
	Hostname   string `json:"hostname"`
	ExternalIP string `json:"external_ip"`
	LocalIP    string `json:"local_ip"`
	Platform   string `json:"platform_name"`
}

// DetectionBehavior is one behavior nested in a detection.
type DetectionBehavior struct {
	BehaviorID    string        `json:"behavior_id"`
	Tactic        string        `json:"tactic"`
	Technique     string        `json:"technique"`
	Filename      string        `json:"filename"`
	CommandLine   string        `json:"cmdline"`
	Timestamp     string        `json:"timestamp"`
	ParentDetails ParentDetails `json:"parent_details"`
}

// ParentDetails describes the parent process of a behavior.
type ParentDetails struct {
	ParentCommandLine string `json:"parent_cmdline"`
	ParentMD5         string `json:"parent_md5"`
	ParentSHA256      string `json:"parent_sha256"`
}

// FirstBehaviorEntry returns the first nested behavior, or false when the
// detection carries none.
func (d *Detection) FirstBehaviorEntry() (DetectionBehavior, bool) {
	if len(d.Behaviors) == 0 {
		return DetectionBehavior{}, false
	}
	return d.Behaviors[0], true
}

// RecordID implements Record.
func (d *Detection) RecordID() string { return d.DetectionID }

// Raw implements Record.
func (d *Detection) Raw() json.RawMessage { return d.raw }

// UnmarshalJSON decodes the typed fields leniently and keeps the raw object.
func (d *Detection) UnmarshalJSON(b []byte) error {
	type plain Detection
	var p plain
	if err := decodeObject(b, &p); err != nil {
		return err
	}
	*d = Detection(p)
	d.raw = cloneRaw(b)
	return nil
}

// Incident is an incident from /incidents/entities/incidents/GET/v1.
type Incident struct {
	IncidentID string   `json:"incident_id"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	Status     int      `json:"status"`
	FineScore  int      `json:"fine_score"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Tactics    []string `json:"tactics"`
	Techniques []string `json:"techniques"`

	raw json.RawMessage
}

// RecordID implements Record.
func (i *Incident) RecordID() string { return i.IncidentID }

// Raw implements Record.
func (i *Incident) Raw() json.RawMessage { return i.raw }

// UnmarshalJSON decodes the typed fields leniently and keeps the raw object.
func (i *Incident) UnmarshalJSON(b []byte) error {
	type plain Incident
	var p plain
	if err := decodeObject(b, &p); err != nil {
		return err
	}
	*i = Incident(p)
	i.raw = cloneRaw(b)
	return nil
}

// Behavior is a behavior from /incidents/entities/behaviors/GET/v1.
type Behavior struct {
	BehaviorID  string `json:"behavior_id"`
	IncidentID  string `json:"incident_id"`
	AgentID     string `json:"aid"`
	Timestamp   string `json:"timestamp"`
	Tactic      string `json:"tactic"`
	Technique   string `json:"technique"`
	Filename    string `json:"filename"`
	CommandLine string `json:"cmdline"`

	raw json.RawMessage
}

// RecordID implements Record.
func (b *Behavior) RecordID() string { return b.BehaviorID }

// Raw implements Record.
func (b *Behavior) Raw() json.RawMessage { return b.raw }

// UnmarshalJSON decodes the typed fields leniently and keeps the raw object.
func (b *Behavior) UnmarshalJSON(data []byte) error {
	type plain Behavior
	var p plain
	if err := decodeObject(data, &p); err != nil {
		return err
	}
	*b = Behavior(p)
	b.raw = cloneRaw(data)
	return nil
}

// Device is a host from /devices/entities/devices/v1.
type Device struct {
	DeviceID          string `json:"device_id"`
	Hostname          string `json:"hostname"`
	OSVersion         string `json:"os_version"`
	ExternalIP        string `json:"external_ip"`
	LocalIP           string `json:"local_ip"`
	LastSeen          string `json:"last_seen"`
	FirstSeen         string `json:"first_seen"`
	PlatformName      string `json:"platform_name"`
	SystemProductName string `json:"system_product_name"`
	AgentVersion      string `json:"agent_version"`

	raw json.RawMessage
}

// RecordID implements Record.
func (d *Device) RecordID() string { return d.DeviceID }

// Raw implements Record.
func (d *Device) Raw() json.RawMessage { return d.raw }

// UnmarshalJSON decodes the typed fields leniently and keeps the raw object.
func (d *Device) UnmarshalJSON(b []byte) error {
	type plain Device
	var p plain
	if err := decodeObject(b, &p); err != nil {
		return err
	}
	*d = Device(p)
	d.raw = cloneRaw(b)
	return nil
}

// DecodeRecords decodes raw API resources into typed records. It fails only
// when a resource is not a JSON object.
func DecodeRecords[T any, PT interface {
	*T
	Record
}](resources []json.RawMessage) ([]PT, error) {
	out := make([]PT, 0, len(resources))
	for _, r := range resources {
		rec := PT(new(T))
		if err := json.Unmarshal(r, rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// RawRecords returns the raw objects of a record slice.
func RawRecords[R Record](records []R) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		out = append(out, r.Raw())
	}
	return out
}

func cloneRaw(b []byte) json.RawMessage {
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}
