package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yndnr/falcon-speak/internal/core/domain"
)

// DetectionRow is the table projection of a detection. The behavior
// columns come from the first nested behavior and are "-" when there is none.
type DetectionRow struct {
	DetectionID   string `table:"Detection ID"`
	Technique     string `table:"Technique"`
	Command       string `table:"Detected Command"`
	Filename      string `table:"Filename"`
	ParentCommand string `table:"Parent Command"`
	LastObserved  string `table:"Last Observed"`
	Hostname      string `table:"Hostname"`
	Severity      string `table:"Severity,wide"`
	Status        string `table:"Status,wide"`
}

// DeviceRow is the table projection of a device.
type DeviceRow struct {
	DeviceID    string `table:"Device ID"`
	Hostname    string `table:"Hostname"`
	OSVersion   string `table:"OS Version"`
	ExternalIP  string `table:"External IP"`
	LastSeen    string `table:"Last Seen"`
	ProductName string `table:"Product Name"`
	LocalIP     string `table:"Local IP,wide"`
	Agent       string `table:"Agent Version,wide"`
}

// DetectionRows projects detections into table rows.
func DetectionRows(dets []*domain.Detection) []DetectionRow {
	rows := make([]DetectionRow, 0, len(dets))
	for _, d := range dets {
		row := DetectionRow{
			DetectionID:  d.DetectionID,
			LastObserved: d.LastBehavior,
			Hostname:     d.Device.Hostname,
			Severity:     d.MaxSeverityDisplayName,
			Status:       d.Status,
		}
		if b, ok := d.FirstBehaviorEntry(); ok {
			row.Technique = b.Technique
			row.Command = b.CommandLine
			row.Filename = b.Filename
			row.ParentCommand = b.ParentDetails.ParentCommandLine
		}
		rows = append(rows, row)
	}
	return rows
}

// DeviceRows projects devices into table rows.
func DeviceRows(devs []*domain.Device) []DeviceRow {
	rows := make([]DeviceRow, 0, len(devs))
	for _, d := range devs {
		rows = append(rows, DeviceRow{
			DeviceID:    d.DeviceID,
			Hostname:    d.Hostname,
			OSVersion:   d.OSVersion,
			ExternalIP:  d.ExternalIP,
			LastSeen:    d.LastSeen,
			ProductName: d.SystemProductName,
			LocalIP:     d.LocalIP,
			Agent:       d.AgentVersion,
		})
	}
	return rows
}

// Records renders hydrated records. JSON and YAML always print the raw
// API objects. Tables exist for detections and devices; other families
// fall back to pretty-printed JSON.
func Records[R domain.Record](w io.Writer, format Format, wide bool, records []R) error {
	raw := domain.RawRecords(records)

	switch format {
	case FormatJSON:
		return (&JSONFormatter{}).Format(w, raw)
	case FormatYAML:
		docs, err := decodeRaw(raw)
		if err != nil {
			return err
		}
		return (&YAMLFormatter{}).Format(w, docs)
	}

	tf := &TableFormatter{Wide: wide}
	switch rs := any(records).(type) {
	case []*domain.Detection:
		return tf.Format(w, DetectionRows(rs))
	case []*domain.Device:
		return tf.Format(w, DeviceRows(rs))
	default:
		return (&JSONFormatter{}).Format(w, raw)
	}
}

// decodeRaw turns raw JSON objects into generic values the YAML encoder
// can walk.
func decodeRaw(raw []json.RawMessage) ([]any, error) {
	out := make([]any, 0, len(raw))
	for i, r := range raw {
		var v any
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
