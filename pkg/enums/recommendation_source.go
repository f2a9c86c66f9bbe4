package enums

// RecommendationSource records which strategy produced a recommendation list.
type RecommendationSource string

const (
	RecommendationSourceAI       RecommendationSource = "ai"
	RecommendationSourceCategory RecommendationSource = "category"
	RecommendationSourceRandom   RecommendationSource = "random"
)

func (r RecommendationSource) String() string {
	return string(r)
}
