package infra

import (
	"errors"
	"sync"
	"time"
)

// EstadoDisjuntor is the state of a Disjuntor: fechado lets calls through,
// aberto fails fast and semiaberto lets probes through until they settle it.
type EstadoDisjuntor int

const (
	Fechado EstadoDisjuntor = iota
	Aberto
	SemiAberto
)

func (s EstadoDisjuntor) String() string {
	switch s {
	case Fechado:
		return "fechado"
	case Aberto:
		return "aberto"
	case SemiAberto:
		return "semiaberto"
	}
	return "desconhecido"
}

// ErrDisjuntorAberto is returned by Executar without calling fn.
var ErrDisjuntorAberto = errors.New("disjuntor aberto")

type ConfigDisjuntor struct {
	FalhasParaAbrir    int
	SucessosParaFechar int
	TempoAberto        time.Duration
}

func DefaultConfigDisjuntor() ConfigDisjuntor {
	return ConfigDisjuntor{FalhasParaAbrir: 5, SucessosParaFechar: 2, TempoAberto: time.Minute}
}

// Disjuntor is a circuit breaker guarding the SMTP relay so a dead mail
// server does not tie up email workers on connect timeouts.
type Disjuntor struct {
	mu       sync.Mutex
	cfg      ConfigDisjuntor
	estado   EstadoDisjuntor
	falhas   int
	sucessos int
	abertoEm time.Time
	agora    func() time.Time
}

func NewDisjuntor(cfg ConfigDisjuntor) *Disjuntor {
	def := DefaultConfigDisjuntor()
	if cfg.FalhasParaAbrir <= 0 {
		cfg.FalhasParaAbrir = def.FalhasParaAbrir
	}
	if cfg.SucessosParaFechar <= 0 {
		cfg.SucessosParaFechar = def.SucessosParaFechar
	}
	if cfg.TempoAberto <= 0 {
		cfg.TempoAberto = def.TempoAberto
	}
	return &Disjuntor{cfg: cfg, agora: time.Now}
}

func (d *Disjuntor) Estado() EstadoDisjuntor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.estadoLocked()
}

// must hold d.mu
func (d *Disjuntor) estadoLocked() EstadoDisjuntor {
	if d.estado == Aberto && d.agora().Sub(d.abertoEm) >= d.cfg.TempoAberto {
		d.estado = SemiAberto
		d.sucessos = 0
	}
	return d.estado
}

// Executar runs fn unless the breaker is open and records the outcome.
func (d *Disjuntor) Executar(fn func() error) error {
	d.mu.Lock()
	if d.estadoLocked() == Aberto {
		d.mu.Unlock()
		return ErrDisjuntorAberto
	}
	d.mu.Unlock()

	err := fn()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.registrarFalha()
	} else {
		d.registrarSucesso()
	}
	return err
}

func (d *Disjuntor) registrarFalha() {
	d.falhas++
	if d.estado == SemiAberto || d.falhas >= d.cfg.FalhasParaAbrir {
		d.estado = Aberto
		d.abertoEm = d.agora()
		d.falhas = 0
		d.sucessos = 0
	}
}

func (d *Disjuntor) registrarSucesso() {
	if d.estado != SemiAberto {
		d.falhas = 0
		return
	}
	d.sucessos++
	if d.sucessos >= d.cfg.SucessosParaFechar {
		d.estado = Fechado
		d.falhas = 0
		d.sucessos = 0
	}
}
