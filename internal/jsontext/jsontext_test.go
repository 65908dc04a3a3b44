package jsontext

import (
	"testing"
)

func TestExtractObjectDirect(t *testing.T) {
	obj, ok := ExtractObject(`{"is_diagram": true, "description": "rondo"}`)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if obj["is_diagram"] != true {
		t.Errorf("is_diagram = %v", obj["is_diagram"])
	}
}

func TestExtractObjectWithCommentary(t *testing.T) {
	raw := "Here is the analysis you asked for:\n\n{\"players\": []}\n\nLet me know if you need more."
	obj, ok := ExtractObject(raw)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if _, has := obj["players"]; !has {
		t.Errorf("obj = %v", obj)
	}
}

func TestExtractObjectCodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n{\"arrows\": [{\"start_x\": 1}]}\n```",
		"```\n{\"arrows\": []}\n```",
	} {
		if _, ok := ExtractObject(raw); !ok {
			t.Errorf("ExtractObject(%q) failed", raw)
		}
	}
}

func TestExtractObjectThinkBlocks(t *testing.T) {
	t.Run("closed think block stripped", func(t *testing.T) {
		raw := "<think>The image shows a rondo with cones.</think>{\"count\": 4}"
		obj, ok := ExtractObject(raw)
		if !ok {
			t.Fatal("expected parse to succeed")
		}
		if obj["count"] != float64(4) {
			t.Errorf("count = %v", obj["count"])
		}
	})

	t.Run("unterminated think with JSON recovers the JSON", func(t *testing.T) {
		raw := "<think>Looking at the markers I can see {\"players\": [{\"label\": \"A1\", \"x\": 10, \"y\": 20}]}"
		obj, ok := ExtractObject(raw)
		if !ok {
			t.Fatal("expected recovery of embedded object")
		}
		if _, has := obj["players"]; !has {
			t.Errorf("obj = %v", obj)
		}
	})

	t.Run("unterminated think without JSON fails", func(t *testing.T) {
		raw := "<think>The diagram appears to show several players arranged"
		if obj, ok := ExtractObject(raw); ok {
			t.Errorf("expected failure, got %v", obj)
		}
	})
}

func TestExtractObjectTrailingComma(t *testing.T) {
	raw := `{"players": [{"label": "A1", "x": 5, "y": 5},], "arrows": [],}`
	obj, ok := ExtractObject(raw)
	if !ok {
		t.Fatal("expected trailing comma repair")
	}
	players, ok := obj["players"].([]any)
	if !ok || len(players) != 1 {
		t.Errorf("players = %v", obj["players"])
	}
}

func TestExtractObjectBracesInStrings(t *testing.T) {
	raw := `noise {"description": "zone marked {A} on the left", "n": 1} trailing`
	obj, ok := ExtractObject(raw)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if obj["description"] != "zone marked {A} on the left" {
		t.Errorf("description = %v", obj["description"])
	}
}

func TestExtractObjectFailures(t *testing.T) {
	for _, raw := range []string{
		"",
		"no structured content at all",
		"{\"unterminated\": ",
		"[1, 2, 3]",
	} {
		if obj, ok := ExtractObject(raw); ok {
			t.Errorf("ExtractObject(%q) = %v, expected failure", raw, obj)
		}
	}
}

const playersSchema = `{
	"type": "object",
	"required": ["players"],
	"properties": {
		"players": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["label", "x", "y"],
				"properties": {
					"label": {"type": "string"},
					"x": {"type": "number"},
					"y": {"type": "number"}
				}
			}
		}
	}
}`

func TestValidatorAcceptsConforming(t *testing.T) {
	v := MustValidator(playersSchema)
	obj := map[string]any{
		"players": []any{
			map[string]any{"label": "A1", "x": 10.0, "y": 20.0},
		},
	}
	if err := v.Validate(obj); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidatorRejectsWrongShape(t *testing.T) {
	v := MustValidator(playersSchema)

	if err := v.Validate(map[string]any{"players": "two teams of four"}); err == nil {
		t.Error("expected rejection of string players")
	}
	if err := v.Validate(map[string]any{}); err == nil {
		t.Error("expected rejection of missing players")
	}
}

func TestNewValidatorBadSchema(t *testing.T) {
	if _, err := NewValidator(`{"type": `); err == nil {
		t.Error("expected error for malformed schema")
	}
}
