package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"medinext-server/internal/metrics"
	"medinext-server/internal/models"
)

// BuildPrompt renders the de-identified patient summary sent to the
// analysis service. SSN and phone lines are included only when the record
// carries them. Age is computed here with the same calendar policy the
// metrics engine uses, because the adapter may receive records that never
// passed through it.
func BuildPrompt(p models.Patient, now time.Time) string {
	var b strings.Builder

	b.WriteString("Here is de-identified patient information:\n")
	fmt.Fprintf(&b, "- Age: %s\n", ageText(p, now))
	if ssn := strings.TrimSpace(p.SSN); ssn != "" {
		fmt.Fprintf(&b, "- SSN: %s\n", ssn)
	}
	if phone := strings.TrimSpace(p.PhoneNumber); phone != "" {
		fmt.Fprintf(&b, "- Phone Number: %s\n", phone)
	}
	fmt.Fprintf(&b, "- Gender: %s\n", p.Sex)
	fmt.Fprintf(&b, "- Medical Conditions: %s\n", p.Conditions)
	fmt.Fprintf(&b, "- Hemoglobin Level: %s g/dL\n", floatText(p.Hemoglobin))
	fmt.Fprintf(&b, "- Current Medications: %s\n", p.Medications)
	fmt.Fprintf(&b, "- Glucose Level: %s mg/dL\n", floatText(p.Glucose))

	b.WriteString(`
Please provide:

1. General interpretation of this data (clinical significance).
2. General next steps a healthcare professional might consider.

Keep the details concise so doctors can read quickly and provide their judgment.`)

	return b.String()
}

func ageText(p models.Patient, now time.Time) string {
	age := metrics.AgeOf(p, now)
	if age == nil {
		return ""
	}
	return strconv.Itoa(*age)
}

func floatText(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
