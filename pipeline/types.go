package pipeline

// Concept is one creative advertising idea parsed from the creative
// director's delimited response. IDs are 1-based and sequential.
type Concept struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// Scene is one timed segment of the generated video script.
type Scene struct {
	SceneNumber       int    `json:"scene_number"`
	TimestampStart    string `json:"timestamp_start"`
	TimestampEnd      string `json:"timestamp_end"`
	Setting           string `json:"setting"`
	VisualDescription string `json:"visual_description"`
	TextOnScreen      string `json:"text_on_screen"`
	AudioCue          string `json:"audio_cue"`
}

// Script is the structured 30-second video script. The JSON shape is
// a single top-level "script" key holding the scene list; that shape is
// what the script stage demands from the model and what the fallback
// reproduces.
type Script struct {
	Scenes []Scene `json:"script"`
}

// FallbackScript is the documented substitute when the script stage
// cannot parse the model's reply: a script with no scenes.
func FallbackScript() Script {
	return Script{Scenes: []Scene{}}
}

// Themes is the cross-scene summary that keeps per-scene image prompts
// visually consistent: one throughline and every recurring figure.
type Themes struct {
	GlobalTheme   string `json:"global_theme"`
	GlobalFigures string `json:"global_figures"`
}

// FallbackThemes is the documented substitute when the theme stage
// cannot parse the model's reply.
func FallbackThemes() Themes {
	return Themes{GlobalTheme: "generic theme", GlobalFigures: "generic figure"}
}

// Frame is one storyboard entry: a scene joined with its image prompt.
type Frame struct {
	SceneNumber       int    `json:"scene_number"`
	Timestamp         string `json:"timestamp"`
	Setting           string `json:"setting"`
	VisualDescription string `json:"visual_description"`
	TextOnScreen      string `json:"text_on_screen"`
	AudioCue          string `json:"audio_cue"`
	ImagePrompt       string `json:"image_prompt"`
}
