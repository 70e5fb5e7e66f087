package pricer

// Pricer memoizes the Greeks of a single request. Every setter discards the
// cached result, so the next read solves again. A Pricer is not safe for
// concurrent use; price independent requests on separate Pricers.
type Pricer struct {
	req        Request
	opts       []Option
	greeks     Greeks
	calculated bool
}

// NewPricer returns a Pricer for req. Nothing is solved until a Greek is read.
func NewPricer(req Request, opts ...Option) *Pricer {
	return &Pricer{req: req, opts: opts}
}

// Request returns a copy of the current inputs.
func (p *Pricer) Request() Request { return p.req }

// Greeks returns the cached result, solving first if an input changed.
func (p *Pricer) Greeks() (Greeks, error) {
	if p.calculated {
		return p.greeks, nil
	}
	g, err := Solve(p.req, p.opts...)
	if err != nil {
		return Greeks{}, err
	}
	p.greeks, p.calculated = g, true
	return g, nil
}

func (p *Pricer) Value() (float64, error) {
	g, err := p.Greeks()
	return g.Value, err
}

func (p *Pricer) Delta() (float64, error) {
	g, err := p.Greeks()
	return g.Delta, err
}

func (p *Pricer) Gamma() (float64, error) {
	g, err := p.Greeks()
	return g.Gamma, err
}

func (p *Pricer) Theta() (float64, error) {
	g, err := p.Greeks()
	return g.Theta, err
}

// Vega is not computed.
func (p *Pricer) Vega() float64 { return 0 }

// Rho is not computed.
func (p *Pricer) Rho() float64 { return 0 }

func (p *Pricer) SetSpot(v float64) { p.req.Spot = v; p.invalidate() }

func (p *Pricer) SetStrike(v float64) { p.req.Strike = v; p.invalidate() }

func (p *Pricer) SetVolatility(v float64) { p.req.Volatility = v; p.invalidate() }

func (p *Pricer) SetRiskFreeRate(v float64) { p.req.RiskFreeRate = v; p.invalidate() }

func (p *Pricer) SetDividendYield(v float64) { p.req.DividendYield = v; p.invalidate() }

func (p *Pricer) SetResidualTime(v float64) { p.req.ResidualTime = v; p.invalidate() }

func (p *Pricer) invalidate() {
	p.calculated = false
	p.greeks = Greeks{}
}
