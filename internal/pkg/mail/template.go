package mail

import (
	"bytes"
	"html/template"
	"time"
)

const broadcastTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
  <title>{{.Subject}}</title>
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:20px">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:600px;margin:0 auto;background-color:#fff;border-radius:8px;padding:24px">
    <tbody>
      <tr><td>
        <h1 style="color:#333;font-size:22px;font-weight:600;margin:0 0 16px">{{.Subject}}</h1>
        <div style="font-size:15px;line-height:24px;color:#444">{{.Body}}</div>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:32px 0 16px" />
        <p style="font-size:12px;line-height:20px;color:#999;text-align:center">
          You are receiving this email because you subscribed to our updates.<br />
          <a href="{{.UnsubscribeURL}}" style="color:#999">Unsubscribe</a>
        </p>
        <p style="font-size:11px;color:#bbb;text-align:center">&copy;{{year}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// BroadcastData is the data for broadcast emails. Body must already be safe HTML.
type BroadcastData struct {
	Subject        string
	Body           template.HTML
	UnsubscribeURL string
}

var broadcastTemplate = template.Must(template.New("broadcast").Funcs(template.FuncMap{
	"year": func() int {
		return time.Now().Year()
	},
}).Parse(broadcastTpl))

// RenderBroadcast renders the broadcast email body.
func RenderBroadcast(data BroadcastData) (string, error) {
	var buf bytes.Buffer
	if err := broadcastTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
