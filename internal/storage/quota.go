package storage

// DefaultQuotaBytes is 80% of the 512MB hosted free tier, the point at
// which the tier moves new writes to the backup target.
const DefaultQuotaBytes int64 = 400 << 20

// QuotaPolicy decides when the live remote target is considered full.
// The dataset size fed to it comes from the backend's DataSize probe,
// which is a crude estimate; policies should treat it as such.
type QuotaPolicy interface {
	ShouldFailover(sizeBytes int64) bool
}

// ThresholdPolicy fails over once the estimated size crosses a fixed
// byte threshold.
type ThresholdPolicy struct {
	ThresholdBytes int64
}

func (p ThresholdPolicy) ShouldFailover(sizeBytes int64) bool {
	return p.ThresholdBytes > 0 && sizeBytes > p.ThresholdBytes
}
