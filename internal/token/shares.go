package token

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/coenradina/splitbill/internal/models"
)

const sharePrefix = "share_"

// DecodeShareMatrix interprets the flat share_<item>_<participant> form
// fields as a full itemCount × participantCount matrix.
//
// This is deliberately permissive: the values are user-typed free text,
// so anything that is not a non-negative finite number counts as 0, and
// keys outside the matrix bounds are ignored. It never fails — a half
// garbled submission still produces a usable matrix.
func DecodeShareMatrix(form url.Values, itemCount, participantCount int) models.ShareMatrix {
	matrix := make(models.ShareMatrix, itemCount)
	for i := range matrix {
		matrix[i] = make([]float64, participantCount)
	}

	for key, values := range form {
		rest, ok := strings.CutPrefix(key, sharePrefix)
		if !ok {
			continue
		}
		itemStr, participantStr, ok := strings.Cut(rest, "_")
		if !ok {
			continue
		}
		item, err := strconv.Atoi(itemStr)
		if err != nil {
			continue
		}
		participant, err := strconv.Atoi(participantStr)
		if err != nil {
			continue
		}
		if item < 0 || item >= itemCount || participant < 0 || participant >= participantCount {
			continue
		}
		if len(values) == 0 {
			continue
		}
		share, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil || share < 0 || math.IsNaN(share) || math.IsInf(share, 0) {
			continue
		}
		matrix[item][participant] = share
	}
	return matrix
}
