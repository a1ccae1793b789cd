// Package narrative implements the story structure analysis engine.
//
// Given an ordered list of scenes it derives a three-act arc with
// narrative beats, a tension curve, per-scene duration suggestions,
// coaching suggestions and a completeness score. Every operation is a
// pure function of its input: no I/O, no shared state, no logging.
//
// Array position, never the scene ID, drives every positional rule.
package narrative

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Scene is one externally owned story scene. Empty strings and a nil
// Duration mean the field was not supplied.
type Scene struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Characters  []string `json:"characters"`
	Duration    *int     `json:"duration,omitempty"`
	Setting     string   `json:"setting,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	VideoURL    string   `json:"videoUrl,omitempty"`
}

// descriptionLength counts code points, not bytes.
func (s Scene) descriptionLength() int {
	return utf8.RuneCountInString(s.Description)
}

// IndexScenes turns a decoded JSON value into fully populated scenes.
//
// raw must be a JSON array ([]any) or an already typed []Scene; anything
// else is rejected with a *ValidationError. Elements are never rejected:
// missing or mistyped fields fall back to their zero value and non-object
// elements become empty scenes. Input order is preserved.
func IndexScenes(raw any) ([]Scene, error) {
	switch v := raw.(type) {
	case []Scene:
		return normalizeScenes(v), nil
	case []any:
		scenes := make([]Scene, 0, len(v))
		for _, item := range v {
			scenes = append(scenes, sceneFromRecord(item))
		}
		return scenes, nil
	case []map[string]any:
		scenes := make([]Scene, 0, len(v))
		for _, item := range v {
			scenes = append(scenes, sceneFromRecord(item))
		}
		return scenes, nil
	default:
		return nil, &ValidationError{
			Field:  "scenes",
			Reason: fmt.Sprintf("expected an array, got %s", describeJSON(raw)),
		}
	}
}

// ParseScenes decodes a JSON document and indexes it.
func ParseScenes(data []byte) ([]Scene, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "scenes", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return IndexScenes(raw)
}

func sceneFromRecord(item any) Scene {
	m, ok := item.(map[string]any)
	if !ok {
		return Scene{Characters: []string{}}
	}

	s := Scene{
		ID:          cast.ToInt(m["id"]),
		Title:       stringField(m, "title"),
		Description: stringField(m, "description"),
		Characters:  dedupeCharacters(characterList(m["characters"])),
		Setting:     stringField(m, "setting"),
		Mood:        stringField(m, "mood"),
		ImageURL:    stringField(m, "imageUrl"),
		VideoURL:    stringField(m, "videoUrl"),
	}
	if v, present := m["duration"]; present && v != nil {
		if d, err := cast.ToIntE(v); err == nil && d > 0 {
			s.Duration = &d
		}
	}
	return s
}

// stringField only accepts scalar values; nested objects are dropped
// rather than stringified.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64, int, int64, bool:
		return cast.ToString(v)
	default:
		return ""
	}
}

func characterList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			switch item.(type) {
			case string, float64, int:
				names = append(names, cast.ToString(item))
			}
		}
		return names
	case string:
		return []string{list}
	default:
		return nil
	}
}

// dedupeCharacters trims names, drops blanks and collapses repeated
// mentions within one scene. The first mention keeps its position.
func dedupeCharacters(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// normalizeScenes copies typed scenes so later stages can rely on
// non-nil, de-duplicated character lists without touching caller data.
func normalizeScenes(in []Scene) []Scene {
	out := make([]Scene, len(in))
	for i, s := range in {
		s.Characters = dedupeCharacters(s.Characters)
		if s.Duration != nil {
			if *s.Duration > 0 {
				d := *s.Duration
				s.Duration = &d
			} else {
				s.Duration = nil
			}
		}
		out[i] = s
	}
	return out
}

func sceneIDs(scenes []Scene) []int {
	ids := make([]int, len(scenes))
	for i, s := range scenes {
		ids[i] = s.ID
	}
	return ids
}

func describeJSON(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
