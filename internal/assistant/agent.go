// Package assistant implements the chat side of uideck: an offline agent
// that turns requests into displayComponent calls, the transcript, and a
// Markdown renderer for assistant messages.
package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one displayComponent invocation requested by the agent.
type ToolCall struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Args dispatch.ToolArgs `json:"args"`
}

// Message is one transcript entry. Tool entries carry the call and, once
// dispatched, its result.
type Message struct {
	ID     string           `json:"id"`
	Role   Role             `json:"role"`
	Text   string           `json:"text,omitempty"`
	Call   *ToolCall        `json:"call,omitempty"`
	Result *dispatch.Result `json:"result,omitempty"`
	At     time.Time        `json:"at"`
}

// NewMessage stamps a message with an id and the current time.
func NewMessage(role Role, text string) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text, At: time.Now()}
}

// Reply is the agent's answer to one user message.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
}

// Agent answers user messages.
type Agent interface {
	Respond(ctx context.Context, history []Message, input string) (Reply, error)
}

// HelpText is the reply to requests the agent does not understand.
const HelpText = `I can show **lists**, **item details** and **forms** for products, users, employees and orders.

Try:
- ` + "`Show me products`" + `
- ` + "`Display user list as a grid`" + `
- ` + "`Show me order #1001`" + `
- ` + "`Add a new employee`"

var (
	wordRe   = regexp.MustCompile(`[a-z]+`)
	hashIDRe = regexp.MustCompile(`#(\d+)\b`)
	asListRe = regexp.MustCompile(`\b(as (a )?list|list (layout|view))\b`)
)

// domainIDRe matches a number right after a domain word: "user 2",
// "order id 1001".
var domainIDRe = regexp.MustCompile(`\b(?:products?|users?|employees?|staff|orders?)\s+(?:#|id\s+|number\s+)?(\d+)\b`)

var domainWords = map[string]domain.Domain{
	"product": domain.Products, "products": domain.Products,
	"user": domain.Users, "users": domain.Users,
	"employee": domain.Employees, "employees": domain.Employees, "staff": domain.Employees,
	"order": domain.Orders, "orders": domain.Orders,
}

var formWords = map[string]bool{"add": true, "create": true, "new": true, "register": true}

var layoutWords = map[string]string{
	"table": "table", "grid": "grid", "card": "card", "cards": "card",
	"panel": "panel", "details": "details", "detail": "details",
}

var itemLayouts = map[string]bool{"card": true, "panel": true, "details": true}

// RuleAgent is a deterministic keyword matcher standing in for a language
// model.
type RuleAgent struct {
	newID func() string
}

// NewRuleAgent returns a RuleAgent issuing uuid call ids.
func NewRuleAgent() *RuleAgent {
	return &RuleAgent{newID: uuid.NewString}
}

// Respond implements Agent.
func (a *RuleAgent) Respond(ctx context.Context, _ []Message, input string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	args, ok := Interpret(input)
	if !ok {
		return Reply{Text: HelpText}, nil
	}
	call := ToolCall{ID: a.newID(), Name: dispatch.ToolName, Args: args}
	return Reply{Text: describe(args), ToolCalls: []ToolCall{call}}, nil
}

// Interpret extracts displayComponent arguments from a request. It
// reports false when no domain can be identified.
func Interpret(input string) (dispatch.ToolArgs, bool) {
	text := strings.ToLower(input)
	var (
		args   dispatch.ToolArgs
		dom    domain.Domain
		isForm bool
	)
	for _, w := range wordRe.FindAllString(text, -1) {
		if d, ok := domainWords[w]; ok && dom == "" {
			dom = d
		}
		if formWords[w] {
			isForm = true
		}
		if l, ok := layoutWords[w]; ok {
			args.Layout = l
		}
	}
	if asListRe.MatchString(text) {
		args.Layout = "list"
	}
	id := itemID(text)
	if dom == "" && id != "" {
		// Only orders use four digit ids.
		if n, err := strconv.Atoi(id); err == nil && n >= 1000 {
			dom = domain.Orders
		}
	}
	if dom == "" {
		return dispatch.ToolArgs{}, false
	}
	args.DataType = dom.String()
	switch {
	case isForm:
		args.ComponentType = string(dispatch.KindForm)
		args.Layout = ""
	case id != "":
		args.ComponentType = string(dispatch.KindItem)
		args.ItemID = id
		if !itemLayouts[args.Layout] {
			args.Layout = ""
		}
	default:
		args.ComponentType = string(dispatch.KindList)
		if itemLayouts[args.Layout] {
			args.Layout = ""
		}
	}
	return args, true
}

// itemID finds an item id written as "#N" or right after a domain word.
// Other numbers, as in "top 5 products", are not ids.
func itemID(text string) string {
	if m := hashIDRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := domainIDRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func describe(args dispatch.ToolArgs) string {
	switch dispatch.Kind(args.ComponentType) {
	case dispatch.KindForm:
		return fmt.Sprintf("Opening the form to add a new **%s**.", singular(args.DataType))
	case dispatch.KindItem:
		return fmt.Sprintf("Here are the details of %s `%s`.", singular(args.DataType), args.ItemID)
	}
	if args.Layout != "" {
		return fmt.Sprintf("Showing **%s** as a %s.", args.DataType, args.Layout)
	}
	return fmt.Sprintf("Showing **%s**.", args.DataType)
}

func singular(dataType string) string {
	if d, err := domain.Parse(dataType); err == nil {
		return d.Singular()
	}
	return dataType
}
