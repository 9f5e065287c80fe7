package provider

import (
	"bytes"
	"html/template"
	"io"
)

var autoSubmitForm = template.Must(template.New("bank-form").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.getElementById('payform').submit()">
<form id="payform" method="POST" action="{{.GatewayURL}}">
{{- range .Params}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// RenderForm writes an HTML page that posts the intent to the bank as soon as
// it loads. Names and values are HTML-escaped.
func RenderForm(w io.Writer, intent *Intent) error {
	return autoSubmitForm.Execute(w, intent)
}

func (i *Intent) HTML() (string, error) {
	var buf bytes.Buffer
	if err := RenderForm(&buf, i); err != nil {
		return "", err
	}
	return buf.String(), nil
}
