package engine

import (
	"context"

	uuid "github.com/google/uuid"
	zap "go.uber.org/zap"

	domain "github.com/paintmcp/paintd/internal/domain"
	logger "github.com/paintmcp/paintd/internal/logger"
	planner "github.com/paintmcp/paintd/internal/planner"
	session "github.com/paintmcp/paintd/internal/session"
	toolstate "github.com/paintmcp/paintd/internal/toolstate"
)

// progressEvery is the batch progress event cadence, in primitives
const progressEvery = 25

// RecreateImage replays a provided bitmap onto the canvas as paced
// drawing primitives, one color group at a time
func (e *Engine) RecreateImage(ctx context.Context, p domain.RecreateImageParams) (domain.RecreateImageResult, error) {
	img, err := e.plans.Decode(p.ImageBase64)
	if err != nil {
		return domain.RecreateImageResult{}, err
	}

	outputPath := ""
	if p.OutputFilename != "" {
		outputPath = resolveSavePath(p.OutputFilename, "")
		if err := e.guard.CheckWritable(outputPath); err != nil {
			return domain.RecreateImageResult{}, err
		}
	}

	jobID := uuid.NewString()
	ctx = logger.With(ctx, zap.String("job_id", jobID))

	var result domain.RecreateImageResult
	err = e.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		docW, docH := s.DocSize()
		plan, err := e.plans.Build(img, docW, docH, p.DetailOrDefault())
		if err != nil {
			return err
		}
		if err := e.executePlan(ctx, s, jobID, plan); err != nil {
			return err
		}

		if outputPath != "" {
			if err := e.dialogs.SaveAs(ctx, outputPath); err != nil {
				return err
			}
		}

		result = domain.RecreateImageResult{
			Status:          domain.StatusSuccess,
			JobID:           jobID,
			PrimitivesTotal: plan.Total,
			ColorsUsed:      plan.Colors(),
			OutputPath:      outputPath,
		}
		return nil
	})
	if err != nil {
		return domain.RecreateImageResult{}, err
	}
	return result, nil
}

// executePlan replays a plan on the canvas. Each color group costs one
// palette change; progress events fire every progressEvery primitives
// and on the last one.
func (e *Engine) executePlan(ctx context.Context, s *session.Session, jobID string, plan *planner.Plan) error {
	logger.L(ctx).Info("recreation batch started",
		zap.Int("primitives", plan.Total),
		zap.Int("colors", plan.Colors()),
		zap.Int("grid_step", plan.Step))

	done := 0
	for _, group := range plan.Groups {
		pencil := domain.ToolPencil
		one := 1
		c := group.Color
		if err := e.applyDelta(ctx, s, toolstate.Delta{Tool: &pencil, Color: &c, Thickness: &one}); err != nil {
			return batchFailed(jobID, done, plan.Total, err)
		}

		for _, prim := range group.Primitives {
			if err := e.drawPrimitive(ctx, s, prim); err != nil {
				return batchFailed(jobID, done, plan.Total, err)
			}
			done++
			if done%progressEvery == 0 || done == plan.Total {
				e.events.Publish(Event{Kind: EventBatchProgress, JobID: jobID, Done: done, Total: plan.Total})
			}
		}
	}

	logger.L(ctx).Info("recreation batch finished", zap.Int("primitives", done))
	return nil
}

func batchFailed(jobID string, done, total int, cause error) error {
	return domain.WrapError(domain.CodeTransformationFailed, cause,
		"recreation batch %s failed after %d of %d primitives", jobID, done, total)
}

// drawPrimitive renders one primitive with the already-applied tool
// state
func (e *Engine) drawPrimitive(ctx context.Context, s *session.Session, prim domain.DrawingPrimitive) error {
	m := s.Mapper()
	screen := make([]domain.Point, 0, len(prim.Points))
	for _, pt := range prim.Points {
		sp, err := m.ToScreen(pt)
		if err != nil {
			return err
		}
		screen = append(screen, sp)
	}

	switch prim.Kind {
	case domain.PrimitivePoint:
		return e.sim.ClickAt(ctx, screen[0])
	case domain.PrimitiveSegment:
		return e.sim.Drag(ctx, screen[0], screen[1])
	case domain.PrimitivePolyline:
		return e.sim.DragPath(ctx, screen)
	case domain.PrimitiveRect:
		tl, br := screen[0], screen[1]
		tr := domain.Point{X: br.X, Y: tl.Y}
		bl := domain.Point{X: tl.X, Y: br.Y}
		return e.sim.DragPath(ctx, []domain.Point{tl, tr, br, bl, tl})
	}
	return domain.ErrInvalidParameters("unknown primitive kind %q", prim.Kind)
}
