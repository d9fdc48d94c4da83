package agronomy

import "github.com/agrivision/backend/internal/core/domain"

// InferStage derives the growth stage from detection counts, checking the
// most advanced indicators first: any ripening fruit wins over unripe fruit,
// fruit over flowers, flowers over foliage. Confidence is the share of
// detections supporting the chosen stage. A frame with no foliage at all is
// not a usable plant shot, so the stage is unknown with zero confidence even
// when fruit was detected.
func InferStage(c domain.DetectionCounts) (domain.GrowthStage, float64) {
	if c.Leaf == 0 {
		return domain.StageUnknown, 0
	}
	total := float64(c.Leaf + c.Flower + c.Fruit + c.Ripening)
	switch {
	case c.Ripening > 0:
		return domain.StageRipening, confidence(c.Ripening+c.Fruit, total)
	case c.Fruit > 0:
		return domain.StageFruiting, confidence(c.Fruit, total)
	case c.Flower > 0:
		return domain.StageFlowering, confidence(c.Flower, total)
	case c.Leaf > 5:
		return domain.StageVegetative, confidence(c.Leaf, total)
	case c.Leaf > 0:
		return domain.StageEarlyVegetative, confidence(c.Leaf, total)
	default:
		return domain.StageUnknown, 0
	}
}

func confidence(supporting int, total float64) float64 {
	conf := float64(supporting) / total
	if conf > 1 {
		conf = 1
	}
	return conf
}
