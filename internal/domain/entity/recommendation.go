package entity

// Recommendation pairs a subreddit with the probability the classifier assigns to it
type Recommendation struct {
	Subreddit string  `json:"subreddit" msgpack:"s"`
	Proba     float64 `json:"proba" msgpack:"p"`
}
