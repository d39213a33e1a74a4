package sim

import "coldsim/internal/model"

// Classify maps a reading value to a severity tier against the emitting
// sensor's thresholds. Bounds are exclusive of violation: equality is not
// a breach. The critical check runs last and overrides a warning. Absent
// bounds never breach, so a sensor without thresholds is always normal.
func Classify(value float64, t model.Thresholds) model.Severity {
    sev := model.SeverityNormal
    if t.Max != nil && value > *t.Max { sev = model.SeverityWarning }
    if t.Min != nil && value < *t.Min { sev = model.SeverityWarning }
    if t.Critical != nil && value > *t.Critical { sev = model.SeverityCritical }
    return sev
}
