package loadtest

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

var dishes = []string{"Nasi Goreng", "Mie Ayam", "Soto", "Bakso", "Sate", "Es Teh", "Es Jeruk", "Gado-gado"}

// generateItems creates n distinct menu payloads owned by owner.
func generateItems(n int, owner string) []MenuInput {
	items := make([]MenuInput, n)
	for i := range items {
		tag := uuid.NewString()[:8]
		items[i] = MenuInput{
			Name:        dishes[randInt(len(dishes))] + " " + tag,
			Description: "Menu uji #" + strconv.Itoa(i+1),
			Price:       float64(minPrice + priceStep*randInt(priceSpan)),
			UserID:      owner,
		}
	}
	return items
}

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
