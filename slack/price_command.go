package fdslack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bcdannyboy/fdquant/fdm"
	"github.com/bcdannyboy/fdquant/pricer"
	"github.com/slack-go/slack"
)

const (
	priceUsage   = "Usage: /fdprice <call|put|straddle> <spot> <strike> <rate> <dividend> <vol> <years> [grid] [american]"
	impliedUsage = "Usage: /fdiv <call|put|straddle> <spot> <strike> <rate> <dividend> <years> <price> [american]"
)

// PriceHandler answers /fdprice with the PDE value and Greeks.
type PriceHandler struct {
	defaults pricer.Request
	opts     []pricer.Option
}

// NewPriceHandler uses defaults for the grid size, time steps and scheme when
// a command leaves them out.
func NewPriceHandler(defaults pricer.Request, opts ...pricer.Option) *PriceHandler {
	return &PriceHandler{defaults: defaults, opts: opts}
}

func (h *PriceHandler) HandleCommand(cmd slack.SlashCommand, client messenger) error {
	_, _, err := client.PostMessage(cmd.ChannelID, slack.MsgOptionText(h.Reply(cmd.Text), false))
	return err
}

// Reply prices the command text and formats the answer.
func (h *PriceHandler) Reply(text string) string {
	req, err := ParsePriceCommand(text, h.defaults)
	if err != nil {
		return fmt.Sprintf("%v\n%s", err, priceUsage)
	}
	g, err := pricer.Solve(req, h.opts...)
	if err != nil {
		return fmt.Sprintf("Pricing failed: %v", err)
	}
	return FormatGreeks(req, g)
}

// ImpliedHandler answers /fdiv with the volatility matching a quoted price.
type ImpliedHandler struct {
	defaults pricer.Request
	opts     []pricer.Option
}

func NewImpliedHandler(defaults pricer.Request, opts ...pricer.Option) *ImpliedHandler {
	return &ImpliedHandler{defaults: defaults, opts: opts}
}

func (h *ImpliedHandler) HandleCommand(cmd slack.SlashCommand, client messenger) error {
	_, _, err := client.PostMessage(cmd.ChannelID, slack.MsgOptionText(h.Reply(cmd.Text), false))
	return err
}

func (h *ImpliedHandler) Reply(text string) string {
	req, price, err := ParseImpliedCommand(text, h.defaults)
	if err != nil {
		return fmt.Sprintf("%v\n%s", err, impliedUsage)
	}
	vol, err := pricer.ImpliedVolatility(req, price, h.opts...)
	if err != nil {
		return fmt.Sprintf("Implied volatility failed: %v", err)
	}
	return fmt.Sprintf("%s %s K=%.2f S=%.2f T=%.4f price %.4f\nimplied vol: %.4f%%",
		strings.ToUpper(req.Exercise.String()), req.Type, req.Strike, req.Spot, req.ResidualTime, price, vol*100)
}

// ParsePriceCommand reads the /fdprice arguments on top of defaults.
func ParsePriceCommand(text string, defaults pricer.Request) (pricer.Request, error) {
	args, american := splitArgs(text)
	if len(args) != 7 && len(args) != 8 {
		return pricer.Request{}, fmt.Errorf("expected 7 or 8 arguments, got %d", len(args))
	}
	req, err := parseCommon(args[:5], defaults, american)
	if err != nil {
		return pricer.Request{}, err
	}
	if req.Volatility, err = parseFloat("vol", args[5]); err != nil {
		return pricer.Request{}, err
	}
	if req.ResidualTime, err = parseFloat("years", args[6]); err != nil {
		return pricer.Request{}, err
	}
	if len(args) == 8 {
		if req.GridPoints, err = strconv.Atoi(args[7]); err != nil {
			return pricer.Request{}, fmt.Errorf("invalid grid %q", args[7])
		}
	}
	if err := req.Validate(); err != nil {
		return pricer.Request{}, err
	}
	return req, nil
}

// ParseImpliedCommand reads the /fdiv arguments and the quoted price.
func ParseImpliedCommand(text string, defaults pricer.Request) (pricer.Request, float64, error) {
	args, american := splitArgs(text)
	if len(args) != 7 {
		return pricer.Request{}, 0, fmt.Errorf("expected 7 arguments, got %d", len(args))
	}
	req, err := parseCommon(args[:5], defaults, american)
	if err != nil {
		return pricer.Request{}, 0, err
	}
	if req.ResidualTime, err = parseFloat("years", args[5]); err != nil {
		return pricer.Request{}, 0, err
	}
	price, err := parseFloat("price", args[6])
	if err != nil {
		return pricer.Request{}, 0, err
	}
	return req, price, nil
}

// FormatGreeks renders a solve result for a chat message.
func FormatGreeks(req pricer.Request, g pricer.Greeks) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s K=%.2f S=%.2f T=%.4f r=%.4f q=%.4f vol=%.4f\n",
		strings.ToUpper(req.Exercise.String()), req.Type, req.Strike, req.Spot, req.ResidualTime,
		req.RiskFreeRate, req.DividendYield, req.Volatility)
	fmt.Fprintf(&b, "value: %.4f\n", g.Value)
	fmt.Fprintf(&b, "delta: %.6f\n", g.Delta)
	fmt.Fprintf(&b, "gamma: %.6f\n", g.Gamma)
	fmt.Fprintf(&b, "theta: %.4f", g.Theta)
	return b.String()
}

func splitArgs(text string) ([]string, bool) {
	var args []string
	american := false
	for _, f := range strings.Fields(text) {
		if strings.EqualFold(f, "american") {
			american = true
			continue
		}
		args = append(args, f)
	}
	return args, american
}

func parseCommon(args []string, defaults pricer.Request, american bool) (pricer.Request, error) {
	req := defaults
	typ, err := fdm.ParseOptionType(args[0])
	if err != nil {
		return pricer.Request{}, fmt.Errorf("invalid option type %q", args[0])
	}
	req.Type = typ
	req.Exercise = pricer.European
	if american {
		req.Exercise = pricer.American
	}

	for i, f := range []struct {
		name string
		dst  *float64
	}{
		{"spot", &req.Spot},
		{"strike", &req.Strike},
		{"rate", &req.RiskFreeRate},
		{"dividend", &req.DividendYield},
	} {
		if *f.dst, err = parseFloat(f.name, args[i+1]); err != nil {
			return pricer.Request{}, err
		}
	}
	return req, nil
}

func parseFloat(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return f, nil
}
