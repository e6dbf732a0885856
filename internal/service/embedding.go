package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// embeddingDims must match the vector column width on saved_recipes
const embeddingDims = 16

// dish-name words outweigh single ingredients when ranking
const dishNameWeight = 2

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % embeddingDims)
}

func addTokens(v []float32, text string, weight float32) {
	for _, tok := range tokens(text) {
		v[bucket(tok)] += weight
	}
}

func normalized(v []float32) pgvector.Vector {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range v {
			v[i] /= norm
		}
	}
	return pgvector.NewVector(v)
}

// GenerateEmbedding hashes the words of a search query into a unit vector.
// Text without letters embeds as the zero vector.
func GenerateEmbedding(text string) pgvector.Vector {
	v := make([]float32, embeddingDims)
	addTokens(v, text, 1)
	return normalized(v)
}

// RecipeEmbedding embeds a saved dish from its name and ingredients
func RecipeEmbedding(dishName string, ingredients []string) pgvector.Vector {
	v := make([]float32, embeddingDims)
	addTokens(v, dishName, dishNameWeight)
	for _, ing := range ingredients {
		addTokens(v, ing, 1)
	}
	return normalized(v)
}
