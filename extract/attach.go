package extract

import (
	"strings"

	"github.com/sievedata/sift/core"
)

// AttachEntities assigns document-level entities to the chunks whose content
// contains them, dedupes per chunk, promotes project and client names into
// chunk topics, and scores sentiment for chunks that carry decisions or
// risks.
func AttachEntities(chunks []*core.Chunk, entities []*core.ExtractedEntity) {
	for _, chunk := range chunks {
		lower := strings.ToLower(chunk.Content)
		seen := make(map[string]*core.ExtractedEntity)
		var order []string
		for _, entity := range entities {
			if !strings.Contains(lower, strings.ToLower(entity.Value)) {
				continue
			}
			key := string(entity.Type) + "\x00" + strings.ToLower(entity.Value)
			if prior, ok := seen[key]; ok {
				if entity.Confidence > prior.Confidence {
					seen[key] = entity
				}
				continue
			}
			seen[key] = entity
			order = append(order, key)
		}

		chunk.Entities = chunk.Entities[:0]
		scoreSentiment := false
		for _, key := range order {
			entity := seen[key]
			chunk.Entities = append(chunk.Entities, *entity)
			switch entity.Type {
			case core.EntityProject, core.EntityClient:
				addTopic(chunk, strings.ToLower(entity.Value))
			case core.EntityDecision, core.EntityRisk:
				scoreSentiment = true
			}
		}
		if scoreSentiment {
			chunk.Sentiment = ScoreSentiment(chunk.Content)
		}
	}
}

func addTopic(chunk *core.Chunk, topic string) {
	for _, existing := range chunk.Topics {
		if existing == topic {
			return
		}
	}
	chunk.Topics = append(chunk.Topics, topic)
}
