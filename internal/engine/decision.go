package engine

import (
	"strings"
	"time"

	"TradeCompass/internal/domain/models"
)

// DecisionInput carries everything the aggregator needs. It is a pure value;
// wall-clock dependence is isolated in the injected day index.
type DecisionInput struct {
	Context models.Context
	Setups  []models.SetupResult
}

// Canned messages per zone, rotated once per day. Order matters: index is
// daysSinceEpoch mod 3.
var (
	favoravelMessages = [3]string{
		"Cenário construtivo: contexto e setups apontam na mesma direção.",
		"Condições favoráveis detectadas; ainda assim, dimensione o risco.",
		"Sinal de compra ativo com confirmação de volume.",
	}
	neutraMessages = [3]string{
		"Sem gatilho claro no momento; aguarde confirmação.",
		"Mercado em observação: nenhum setup ativo.",
		"Cenário neutro; preserve capital até um sinal objetivo.",
	}
	riscoMessages = [3]string{
		"Sinais de pressão vendedora; cautela redobrada.",
		"Cenário adverso: evite novas entradas compradas.",
		"Risco elevado detectado no contexto atual.",
	}
)

// DayIndex converts a wall-clock time into the rotation index (whole days
// since the Unix epoch).
func DayIndex(t time.Time) int {
	return int(t.Unix() / 86400)
}

// CalculateDecisionZone aggregates context and setups using today's message
// rotation. Zone and reasons are pure functions of the input; only Message
// depends on the date.
func CalculateDecisionZone(in DecisionInput) models.DecisionZone {
	return CalculateDecisionZoneAt(in, DayIndex(time.Now()))
}

// CalculateDecisionZoneAt is the pure form with an injected day index. The
// priority chain is evaluated top to bottom and the first match wins: active
// buy setup, active sell setup, anything forming, then context-only rules.
func CalculateDecisionZoneAt(in DecisionInput, day int) models.DecisionZone {
	if hasActiveWithTag(in.Setups, "-compra") {
		return models.DecisionZone{
			Zone:    models.ZoneFavoravel,
			Message: rotate(favoravelMessages, day),
			Reasons: []string{
				"Setup de compra ativo no pregão atual",
				"Confirmação de preço e volume presentes",
				"Contexto não bloqueia a operação",
			},
		}
	}

	if hasActiveWithTag(in.Setups, "-venda") {
		return models.DecisionZone{
			Zone:    models.ZoneRisco,
			Message: rotate(riscoMessages, day),
			Reasons: []string{
				"Setup de venda ativo no pregão atual",
				"Perda de nível relevante confirmada",
				"Priorize proteção de posições existentes",
			},
		}
	}

	if titles := formingTitles(in.Setups); len(titles) > 0 {
		return models.DecisionZone{
			Zone:    models.ZoneNeutra,
			Message: rotate(neutraMessages, day),
			Reasons: []string{
				"Setups em formação: " + strings.Join(titles, ", "),
				"Aguardando confirmação de rompimento",
			},
		}
	}

	switch in.Context.Trend {
	case models.TrendAlta:
		return models.DecisionZone{
			Zone:    models.ZoneNeutra,
			Message: "Tendência de alta sem setup ativo; acompanhe recuos à média.",
			Reasons: []string{"Tendência de alta preservada", "Nenhum gatilho de entrada no momento"},
		}
	case models.TrendBaixa:
		return models.DecisionZone{
			Zone:    models.ZoneRisco,
			Message: "Tendência de baixa dominante; operar contra ela é desaconselhado.",
			Reasons: []string{"Tendência de baixa em vigor", "Sem sinal de reversão confirmado"},
		}
	default:
		return models.DecisionZone{
			Zone:    models.ZoneNeutra,
			Message: rotate(neutraMessages, day),
			Reasons: []string{"Mercado lateral, sem direção definida"},
		}
	}
}

func hasActiveWithTag(setups []models.SetupResult, tag string) bool {
	for _, s := range setups {
		if s.Status == models.StatusAtivo && strings.Contains(s.ID, tag) {
			return true
		}
	}
	return false
}

func formingTitles(setups []models.SetupResult) []string {
	var titles []string
	for _, s := range setups {
		if s.Status == models.StatusEmFormacao {
			titles = append(titles, s.Title)
		}
	}
	return titles
}

func rotate(msgs [3]string, day int) string {
	idx := day % 3
	if idx < 0 {
		idx += 3
	}
	return msgs[idx]
}
