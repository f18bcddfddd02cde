// Package prompt composes the system instructions and function catalog for
// one chat turn. BuildChatConfig is a pure function of an explicit Context;
// it carries no hidden configuration and touches no global state.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Kunal06khurana/Personal-Finance-advisor/internal/money"
)

// Context is everything the instruction template may reference.
type Context struct {
	UserName      string
	Country       string
	Currency      money.Preferences
	DateFormat    string
	DefaultPeriod string
	Snapshot      string
	Today         time.Time
}

// ChatConfig is the assembled configuration for one chat turn.
type ChatConfig struct {
	Instructions string
	Functions    []FunctionDescriptor
}

const instructionsTemplate = `You are a personal finance assistant. You help the user understand their
financial data: accounts, transactions, budgets, income and spending.

User context:
- Name: {{.UserName}}
- Country: {{.Country}}
- Preferred currency: {{.Currency.ISO}}
- Preferred date format: {{.DateFormat}}
- Default reporting period: {{.DefaultPeriod}}
- Today's date: {{.Today.Format "2006-01-02"}}

Financial snapshot:
{{.Snapshot}}

Rules:
- Be concise. Answer the question directly, then stop.
- Do not greet the user and do not apologize.
- Ask a short follow-up question when the request is ambiguous.
- Format answers in markdown.
- Format monetary amounts with the currency symbol "{{.Currency.Symbol}}"
  (ISO code {{.Currency.ISO}}), {{.Currency.Precision}} decimal places,
  "{{.Currency.Separator}}" as the decimal separator and
  "{{.Currency.Delimiter}}" as the thousands delimiter.
- Format dates as {{.DateFormat}}.
- Never recommend buying or selling specific stocks, funds or other
  financial instruments.
- Never assume facts about the user's finances that are not present in the
  snapshot or in function results. Only state what the data shows.
- When calling functions with date arguments, resolve relative expressions
  like "last month" against today's date ({{.Today.Format "2006-01-02"}}).`

var instructionsTmpl = template.Must(template.New("instructions").Parse(instructionsTemplate))

// BuildChatConfig renders the instructions for the given context and returns
// them with the fixed function catalog.
func BuildChatConfig(ctx Context) (ChatConfig, error) {
	var b strings.Builder
	if err := instructionsTmpl.Execute(&b, ctx); err != nil {
		return ChatConfig{}, fmt.Errorf("render instructions: %w", err)
	}
	return ChatConfig{
		Instructions: b.String(),
		Functions:    Catalog(),
	}, nil
}
