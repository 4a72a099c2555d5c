package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame      int    `json:"frame"`
	TimeMS     int64  `json:"time_ms"`
	Image      string `json:"image,omitempty"`
	PickedBone string `json:"picked_bone,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Manifest describes a rendered animation.
type Manifest struct {
	Skeleton string          `json:"skeleton"`
	Anim     string          `json:"anim,omitempty"`
	Bones    int             `json:"bones"`
	Frames   []ManifestEntry `json:"frames"`
}

// BuildManifest converts results into manifest entries, naming picked
// bones through boneName.
func BuildManifest(skel, anim string, bones int, results []Result, boneName func(int) string) Manifest {
	m := Manifest{Skeleton: skel, Anim: anim, Bones: bones, Frames: make([]ManifestEntry, len(results))}
	for i, r := range results {
		e := ManifestEntry{
			Frame:  r.Frame.Index,
			TimeMS: r.Frame.Time.Milliseconds(),
			Image:  r.File,
			Error:  r.Error,
		}
		if r.Picked >= 0 && boneName != nil {
			e.PickedBone = boneName(r.Picked)
		}
		m.Frames[i] = e
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
