package narrative

// characterCount records how many scenes a character appears in.
type characterCount struct {
	Name     string
	Scenes   int
	sceneIDs []int
}

// countCharacters tallies appearances per character in order of first
// appearance. A character named twice in one scene counts once.
func countCharacters(scenes []Scene) []characterCount {
	index := make(map[string]int)
	var counts []characterCount
	for _, s := range scenes {
		seen := make(map[string]bool, len(s.Characters))
		for _, name := range s.Characters {
			if seen[name] {
				continue
			}
			seen[name] = true

			i, ok := index[name]
			if !ok {
				i = len(counts)
				index[name] = i
				counts = append(counts, characterCount{Name: name})
			}
			counts[i].Scenes++
			counts[i].sceneIDs = append(counts[i].sceneIDs, s.ID)
		}
	}
	return counts
}

// averageAppearances is 0 for a story without characters.
func averageAppearances(counts []characterCount) float64 {
	if len(counts) == 0 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c.Scenes
	}
	return float64(total) / float64(len(counts))
}
