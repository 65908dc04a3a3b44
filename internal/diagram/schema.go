package diagram

import "github.com/drillbook/drillbook/internal/jsontext"

// playerReplySchema rejects replies where the model answered with the
// right key but the wrong shape, e.g. "players" as prose. Per-entry
// problems are left to validatePositions, which salvages what it can.
const playerReplySchema = `{
	"type": "object",
	"required": ["players"],
	"properties": {
		"players": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var playerReplyValidator = jsontext.MustValidator(playerReplySchema)
