package match

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Clearance is a US government security clearance level. Levels are ordered
// by restrictiveness: a higher value gates more jobs.
type Clearance int

const (
	ClearanceNone Clearance = iota
	ClearancePublicTrust
	ClearanceSecret
	ClearanceTopSecret
	ClearanceTSSCI
)

var clearanceNames = map[Clearance]string{
	ClearanceNone:        "None",
	ClearancePublicTrust: "Public Trust",
	ClearanceSecret:      "Secret",
	ClearanceTopSecret:   "Top Secret",
	ClearanceTSSCI:       "TS/SCI",
}

// clearanceAliases covers both wire dialects produced by the matcher service:
// enum names ("TOP_SECRET") and display strings ("Top Secret"), plus the
// shorthand recruiters actually put into job postings.
var clearanceAliases = map[string]Clearance{
	"none":          ClearanceNone,
	"none required": ClearanceNone,
	"public trust":  ClearancePublicTrust,
	"public_trust":  ClearancePublicTrust,
	"secret":        ClearanceSecret,
	"top secret":    ClearanceTopSecret,
	"top_secret":    ClearanceTopSecret,
	"topsecret":     ClearanceTopSecret,
	"ts":            ClearanceTopSecret,
	"ts/sci":        ClearanceTSSCI,
	"ts_sci":        ClearanceTSSCI,
	"ts-sci":        ClearanceTSSCI,
	"tssci":         ClearanceTSSCI,
	"sci":           ClearanceTSSCI,
}

func (c Clearance) String() string {
	if name, ok := clearanceNames[c]; ok {
		return name
	}
	return "None"
}

// ParseClearance resolves a clearance string from any wire dialect. Unknown
// and empty values resolve to ClearanceNone, mirroring the service's own
// fallback, so wire data can never fail a record.
func ParseClearance(s string) Clearance {
	if level, ok := clearanceAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return ClearanceNone
}

// ParseClearanceStrict is the configuration-facing variant: a value the user
// typed must resolve exactly or be reported back.
func ParseClearanceStrict(s string) (Clearance, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ClearanceNone, fmt.Errorf("clearance value is empty")
	}
	if level, ok := clearanceAliases[strings.ToLower(trimmed)]; ok {
		return level, nil
	}
	return ClearanceNone, fmt.Errorf("unknown clearance %q (known: None, Public Trust, Secret, Top Secret, TS/SCI)", s)
}

func (c Clearance) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clearance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseClearance(s)
	return nil
}
