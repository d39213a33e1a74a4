package sim

import (
    "testing"

    "coldsim/internal/model"
)

func TestClassifyTiers(t *testing.T) {
    th := model.Thresholds{Min: f(2), Max: f(8), Critical: f(12)}
    cases := []struct {
        value float64
        want  model.Severity
    }{
        {5, model.SeverityNormal},
        {9, model.SeverityWarning},
        {13, model.SeverityCritical},
        {8, model.SeverityNormal},  // boundary: equality is not a breach
        {2, model.SeverityNormal},  // boundary on min
        {1.9, model.SeverityWarning},
        {12, model.SeverityWarning}, // at critical: max already breached, critical not
    }
    for _, c := range cases {
        if got := Classify(c.value, th); got != c.want {
            t.Fatalf("Classify(%v) = %s, want %s", c.value, got, c.want)
        }
    }
}

func TestClassifyCriticalOverridesWarning(t *testing.T) {
    th := model.Thresholds{Max: f(8), Critical: f(12)}
    if got := Classify(100, th); got != model.SeverityCritical {
        t.Fatalf("got %s, want critical", got)
    }
}

func TestClassifyNoThresholds(t *testing.T) {
    if got := Classify(9999, model.Thresholds{}); got != model.SeverityNormal {
        t.Fatalf("no thresholds must never breach, got %s", got)
    }
}

func TestClassifyMinOnly(t *testing.T) {
    th := model.Thresholds{Min: f(0)}
    if got := Classify(-1, th); got != model.SeverityWarning {
        t.Fatalf("got %s, want warning", got)
    }
    if got := Classify(0, th); got != model.SeverityNormal {
        t.Fatalf("boundary breach: got %s, want normal", got)
    }
}
