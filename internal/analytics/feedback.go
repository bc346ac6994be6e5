package analytics

import (
	"math"
	"strconv"
	"strings"

	"plantao-ops/internal/models"
)

// FeedbackAverage is the mean of one survey score.
type FeedbackAverage struct {
	Field     string  `json:"campo"`
	Average   float64 `json:"media"`
	Responses int     `json:"respostas"`
}

type scoreField struct {
	name  string
	get   func(*models.Feedback) *string
	scale float64
}

// nota_estrutura_uti is answered on 0-5 and percentual_procedimentos on
// 0-100; both are rescaled before averaging.
var scoreFields = []scoreField{
	{"nota_geral", func(f *models.Feedback) *string { return f.OverallScore }, 1},
	{"nota_preceptor", func(f *models.Feedback) *string { return f.PreceptorScore }, 1},
	{"nota_organizacao", func(f *models.Feedback) *string { return f.OrganizationScore }, 1},
	{"nota_infraestrutura", func(f *models.Feedback) *string { return f.InfrastructureScore }, 1},
	{"nota_aprendizado", func(f *models.Feedback) *string { return f.LearningScore }, 1},
	{"nota_acolhimento", func(f *models.Feedback) *string { return f.WelcomeScore }, 1},
	{"nota_supervisao", func(f *models.Feedback) *string { return f.SupervisionScore }, 1},
	{"nota_equipe_enfermagem", func(f *models.Feedback) *string { return f.NursingTeamScore }, 1},
	{"nota_carga_horaria", func(f *models.Feedback) *string { return f.WorkloadScore }, 1},
	{"nota_seguranca", func(f *models.Feedback) *string { return f.SafetyScore }, 1},
	{"nota_material", func(f *models.Feedback) *string { return f.SuppliesScore }, 1},
	{"nota_recomendacao", func(f *models.Feedback) *string { return f.RecommendationScore }, 1},
	{"nota_estrutura_uti", func(f *models.Feedback) *string { return f.UnitStructureScore }, 2},
	{"percentual_procedimentos", func(f *models.Feedback) *string { return f.ProceduresPercentage }, 1.0 / 20},
}

// parseScore accepts "8", "8.5" and "8,5". Blank, zero and non-numeric
// answers, NaN and Inf included, are reported as not ok.
func parseScore(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(*raw), "%"))
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FeedbackAverages averages every score over its numeric, non-zero answers.
// A field nobody answered has Average 0 and Responses 0.
func FeedbackAverages(feedback []*models.Feedback) []FeedbackAverage {
	out := make([]FeedbackAverage, 0, len(scoreFields))
	for _, sf := range scoreFields {
		sum, n := 0.0, 0
		for _, f := range feedback {
			if v, ok := parseScore(sf.get(f)); ok {
				sum += v * sf.scale
				n++
			}
		}
		avg := 0.0
		if n > 0 {
			avg = sum / float64(n)
		}
		out = append(out, FeedbackAverage{Field: sf.name, Average: avg, Responses: n})
	}
	return out
}
