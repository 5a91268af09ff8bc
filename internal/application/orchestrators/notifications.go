package orchestrators

import (
	"bytes"
	"html/template"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<p>Hello {{.Club.Name}},</p>
<p>Your booking <strong>{{.Booking.Reference}}</strong> is confirmed:
{{.Booking.Places}} place(s) at {{.Competition.Name}} on {{.Date}}.</p>
<p>{{.Booking.PointsSpent}} points were used. Your club has {{.Club.Points}} points left.</p>
<p>GUDLFT Registration</p>
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`<p>Hello {{.Club}},</p>
<p>{{.Competition.Name}} starts on {{.Date}}. Your club holds {{.Places}} place(s).</p>
<p>GUDLFT Registration</p>
`))

func renderEmail(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
