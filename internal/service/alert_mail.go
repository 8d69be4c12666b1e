package service

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

var alertMailTemplate = template.Must(template.New("alert").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`Hello {{.Greeting}},

{{.Count}} new {{if eq .Count 1}}tender matches{{else}}tenders match{{end}} your saved search "{{.SearchName}}" since {{.Since}}.
{{range $i, $t := .Tenders}}
{{inc $i}}. {{$t.Title}}
{{- if $t.Buyer}}
   Buyer: {{$t.Buyer}}{{end}}
{{- if $t.Closes}}
   Closes: {{$t.Closes}}{{end}}
{{- if $t.Link}}
   {{$t.Link}}{{end}}
{{end}}
You receive this {{.Frequency}} alert because of your saved search settings.
{{- if .ManageURL}}
Manage your saved searches: {{.ManageURL}}{{end}}
`))

// AlertComposer renders saved-search digests as plain-text mail.
type AlertComposer struct {
	baseURL string
}

// NewAlertComposer creates a composer linking tenders under baseURL.
// With an empty baseURL the tender's own URL is used when present.
func NewAlertComposer(baseURL string) *AlertComposer {
	return &AlertComposer{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// AlertMailInput is the data for one digest.
type AlertMailInput struct {
	Search  *model.SavedSearch
	User    *model.User
	To      string
	Tenders []*model.Tender
	Since   time.Time
}

type alertMailTender struct {
	Title  string
	Buyer  string
	Closes string
	Link   string
}

type alertMailView struct {
	Greeting   string
	Count      int
	SearchName string
	Since      string
	Frequency  string
	ManageURL  string
	Tenders    []alertMailTender
}

// Compose builds the digest message for in.
func (c *AlertComposer) Compose(in AlertMailInput) model.MailMessage {
	view := alertMailView{
		Greeting:   "there",
		Count:      len(in.Tenders),
		SearchName: in.Search.Name,
		Since:      in.Since.UTC().Format("2 Jan 2006 15:04 MST"),
		Frequency:  in.Search.AlertFrequency.String(),
		Tenders:    make([]alertMailTender, 0, len(in.Tenders)),
	}
	if in.User != nil && strings.TrimSpace(in.User.Name) != "" {
		view.Greeting = strings.TrimSpace(in.User.Name)
	}
	if c.baseURL != "" {
		view.ManageURL = c.baseURL + "/saved-searches"
	}
	for _, t := range in.Tenders {
		item := alertMailTender{Title: t.Title, Buyer: t.BuyerName, Link: c.tenderLink(t)}
		if t.ClosingAt != nil {
			item.Closes = t.ClosingAt.UTC().Format("2 Jan 2006")
		}
		view.Tenders = append(view.Tenders, item)
	}

	var body bytes.Buffer
	// The template is static and the view holds only strings and ints.
	_ = alertMailTemplate.Execute(&body, view)

	msg := model.MailMessage{
		To:      in.To,
		Subject: model.AlertSubject(view.Count, in.Search.Name),
		Text:    body.String(),
	}
	if in.User != nil {
		msg.ToName = strings.TrimSpace(in.User.Name)
	}
	return msg
}

func (c *AlertComposer) tenderLink(t *model.Tender) string {
	if c.baseURL != "" {
		return c.baseURL + "/tenders/" + t.ID
	}
	if t.URL != nil {
		return *t.URL
	}
	return ""
}
