package plan

import (
	"context"
	"log"

	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/persona"
	planmodel "github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/model/plan"
	"github.com/SyamChandBanisetti/Breakup-recovery-agent/internal/service/ai"
)

// Service dispatches one recovery-plan request across the four personas,
// strictly sequentially and in seed order. Each invocation is caught on its
// own: a failed panel is reported and the sequence continues, and panels
// already emitted are never rolled back.
type Service struct {
	invokers ai.Source
	personas persona.Store
}

// NewService wires the dispatcher to an invoker source and the persona store.
func NewService(invokers ai.Source, personas persona.Store) *Service {
	return &Service{invokers: invokers, personas: personas}
}

// Run invokes every persona exactly once with the composed prompt and the
// shared attachment list, emitting a panel as each invocation settles. It
// returns early only when the request context is cancelled.
func (s *Service) Run(ctx context.Context, feelings string, attachments []planmodel.Attachment, emit func(planmodel.Panel)) error {
	for _, personaID := range s.invokers.Order() {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, ok := s.personas.FindByID(personaID)
		if !ok {
			log.Printf("[plan] skipping unknown persona %s", personaID)
			continue
		}

		panel := planmodel.Panel{
			PersonaID: p.ID,
			Name:      p.Name,
			Heading:   p.Heading,
		}

		inv, ok := s.invokers.Invoker(personaID)
		if !ok {
			panel.Error = "persona unavailable"
			emit(panel)
			continue
		}

		content, err := inv.Invoke(ctx, p.Task+"\n"+feelings, attachments)
		if err != nil {
			log.Printf("[plan] %s invocation failed: %v", p.ID, err)
			panel.Error = err.Error()
			emit(panel)
			continue
		}

		panel.Content = content
		emit(panel)
	}

	return nil
}
