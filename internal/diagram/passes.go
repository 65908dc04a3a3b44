package diagram

import (
	"context"
	"fmt"

	"github.com/drillbook/drillbook/internal/plan"
)

// Each pass degrades to an empty result on failure so one bad reply never
// sinks the other three.

func (e *Extractor) extractPlayers(ctx context.Context, key string, image []byte, cvContext string) []plan.PlayerPosition {
	prompt := fmt.Sprintf(playerPromptTemplate, cvContext)
	parsed, _, err := e.callJSON(ctx, "players", key, image,
		playerSystemPrompt, prompt, e.extractTokens, true)
	if err != nil || parsed == nil {
		e.logger.Warn("player pass returned nothing usable", "image", key, "error", err)
		return []plan.PlayerPosition{}
	}
	if err := playerReplyValidator.Validate(parsed); err != nil {
		e.logger.Warn("player pass reply malformed", "image", key, "error", err)
		return []plan.PlayerPosition{}
	}
	return validatePositions(toMapSlice(parsed["players"]))
}

func (e *Extractor) extractArrows(ctx context.Context, key string, image []byte) []plan.MovementArrow {
	parsed, _, err := e.callJSON(ctx, "arrows", key, image,
		arrowSystemPrompt, arrowPrompt, e.extractTokens, false)
	if err != nil || parsed == nil {
		e.logger.Warn("arrow pass returned nothing usable", "image", key, "error", err)
		return []plan.MovementArrow{}
	}
	return decodeArrows(toMapSlice(parsed["arrows"]))
}

func (e *Extractor) extractEquipmentGoals(ctx context.Context, key string, image []byte, circleCount int) ([]plan.EquipmentObject, []plan.GoalInfo) {
	prompt := fmt.Sprintf(equipmentPromptTemplate, circleCount)
	parsed, _, err := e.callJSON(ctx, "equipment", key, image,
		equipmentSystemPrompt, prompt, e.extractTokens, false)
	if err != nil || parsed == nil {
		e.logger.Warn("equipment pass returned nothing usable", "image", key, "error", err)
		return []plan.EquipmentObject{}, []plan.GoalInfo{}
	}
	return decodeEquipment(toMapSlice(parsed["equipment"])), decodeGoals(toMapSlice(parsed["goals"]))
}

func (e *Extractor) extractPitchView(ctx context.Context, key string, image []byte, pitchInfo string) *plan.PitchView {
	prompt := fmt.Sprintf(pitchViewPromptTemplate, pitchInfo)
	parsed, _, err := e.callJSON(ctx, "pitch_view", key, image,
		pitchViewSystemPrompt, prompt, defaultClassifyTokens, true)
	if err != nil || parsed == nil {
		e.logger.Warn("pitch view pass returned nothing usable", "image", key, "error", err)
		return nil
	}
	return decodePitchView(parsed["pitch_view"])
}
