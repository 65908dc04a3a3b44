package diagram

// Prompt pairs for each extraction pass. Each pass asks for exactly one
// facet of the diagram; narrow prompts parse far more reliably than a
// single everything-at-once prompt on small vision models.

const classificationSystemPrompt = "You are a soccer coaching diagram classifier. You MUST respond with a " +
	"single valid JSON object and nothing else. No markdown, no explanation, " +
	"no text before or after the JSON. Do NOT use <think> tags."

const classificationPrompt = `Classify this image. Is it a soccer/football coaching diagram?

If YES (tactical diagram with player markers, arrows, pitch lines):
{"is_diagram": true, "description": "Brief description of the drill shown"}

If NO (photo, logo, book cover, decorative graphic, text-only):
{"is_diagram": false, "description": "Brief description of what the image shows"}

Output ONLY the JSON object.`

const playerSystemPrompt = "You are a soccer coaching diagram analyzer. Extract ONLY player positions. " +
	"You MUST respond with a single valid JSON object and nothing else. " +
	"No markdown, no explanation. Do NOT use <think> tags."

// playerPromptTemplate takes the vision context string as its single
// formatting argument.
const playerPromptTemplate = `%s

Using this as a starting point, identify all PLAYERS in the diagram.
For each player, provide: label (text near the player), x (0-100 left to right),
y (0-100 bottom/own goal to top/opponent goal), color, role.

Roles: GK="goalkeeper", A/A1="attacker", D/D1="defender", N/N1="neutral", S="server", C="coach"

IMPORTANT: Only count actual player markers (colored circles/icons with labels).
Do NOT count arrow endpoints, sequence numbers, or text labels as players.

Respond with: {"players": [{"label": "GK", "x": 50, "y": 10, "color": "green", "role": "goalkeeper"}]}
Use empty list [] if no players visible.`

const arrowSystemPrompt = "You are a soccer coaching diagram analyzer. Extract ONLY movement arrows. " +
	"You MUST respond with a single valid JSON object and nothing else. " +
	"No markdown, no explanation. Do NOT use <think> tags."

const arrowPrompt = `Extract all movement arrows from this soccer coaching diagram.
Coordinates: x 0-100 (left to right), y 0-100 (bottom/own goal to top/opponent goal).

Arrow types: "run" (solid line), "pass" (dashed), "shot" (thick/bold),
"dribble" (wavy), "cross", "through_ball", "movement" (generic)

For each arrow: start position, end position, type, associated player label if visible.

Respond with: {"arrows": [{"start_x": 30, "start_y": 55, "end_x": 45, "end_y": 75, "arrow_type": "run", "from_label": "A1", "sequence_number": 1}]}
Use empty list [] if no arrows visible.`

const equipmentSystemPrompt = "You are a soccer coaching diagram analyzer. Extract ONLY equipment and goals. " +
	"You MUST respond with a single valid JSON object and nothing else. " +
	"No markdown, no explanation. Do NOT use <think> tags."

// equipmentPromptTemplate takes the detected circle count as its single
// formatting argument.
const equipmentPromptTemplate = `Computer vision detected %d colored circles in this diagram. Those are PLAYERS, not equipment.
Now identify all EQUIPMENT and GOALS separately.

Equipment types: "cone" (small triangle), "mannequin"/"dummy" (human-shaped figure),
"pole", "gate" (two cones with a line between), "hurdle", "mini_goal", "flag"
Goal types: "full_goal" (full-size goal with posts/net)

For each item: type, x (0-100), y (0-100), color if visible.
Goals MUST go in "goals", everything else in "equipment".

Respond with: {"equipment": [{"equipment_type": "mannequin", "x": 40, "y": 60, "color": "blue"}], "goals": [{"x": 50, "y": 100, "goal_type": "full_goal"}]}
Use empty lists [] if nothing visible.`

const pitchViewSystemPrompt = "You are a soccer pitch view classifier. " +
	"You MUST respond with a single valid JSON object and nothing else. " +
	"No markdown, no explanation. Do NOT use <think> tags."

// pitchViewPromptTemplate takes the pitch-line analysis sentence as its
// single formatting argument.
const pitchViewPromptTemplate = `%s

Classify the portion of the soccer pitch shown in this diagram:
- "penalty_area": shows only the area around one goal (18-yard box visible)
- "third": shows approximately one third of the pitch (attacking/defending third)
- "half_pitch": shows one half of the full pitch (center line visible)
- "full_pitch": shows the entire pitch with both goals
- "custom": non-standard or unclear

Respond with: {"pitch_view": {"view_type": "penalty_area"}}`

// noThinkSuffix is appended to the system prompt on the retry attempt when
// the first response could not be parsed as JSON. Some reasoning-tuned
// vision models burn the whole token budget inside <think> blocks.
const noThinkSuffix = " Do NOT use <think> tags. Respond immediately with JSON."
