package models

import "context"

const entityFeedback = "feedback"

const feedbackColumns = `id, id_aluno, nome, data_plantao, data_resposta, uti, preceptor,
	nota_geral, nota_preceptor, nota_organizacao, nota_infraestrutura, nota_aprendizado,
	nota_acolhimento, nota_supervisao, nota_equipe_enfermagem, nota_carga_horaria,
	nota_seguranca, nota_material, nota_recomendacao, nota_estrutura_uti,
	percentual_procedimentos, pontos_positivos, pontos_melhoria, comentarios, sugestoes`

// ListFeedback returns every survey row. The table is filled by an external form.
func (r *Repository) ListFeedback(ctx context.Context) ([]*Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM lovable.pf_feedback ORDER BY data_resposta, id`)
	if err != nil {
		return nil, mapError("list feedback", entityFeedback, "", err)
	}
	defer rows.Close()

	out := []*Feedback{}
	for rows.Next() {
		f := &Feedback{}
		err := rows.Scan(&f.ID, &f.StudentID, &f.Name, &f.ShiftDate, &f.AnsweredAt, &f.Unit, &f.Preceptor,
			&f.OverallScore, &f.PreceptorScore, &f.OrganizationScore, &f.InfrastructureScore, &f.LearningScore,
			&f.WelcomeScore, &f.SupervisionScore, &f.NursingTeamScore, &f.WorkloadScore,
			&f.SafetyScore, &f.SuppliesScore, &f.RecommendationScore, &f.UnitStructureScore,
			&f.ProceduresPercentage, &f.Strengths, &f.Improvements, &f.Comments, &f.Suggestions)
		if err != nil {
			return nil, mapError("scan feedback", entityFeedback, "", err)
		}
		out = append(out, f)
	}
	return out, mapError("iterate feedback", entityFeedback, "", rows.Err())
}
