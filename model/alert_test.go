package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to AlertStatus
		allowed  bool
	}{
		{StatusOpen, StatusAcknowledged, true},
		{StatusOpen, StatusResolved, true}, // skip-acknowledge allowed
		{StatusOpen, StatusDismissed, true},
		{StatusAcknowledged, StatusResolved, true},
		{StatusAcknowledged, StatusDismissed, false},
		{StatusAcknowledged, StatusOpen, false},
		{StatusResolved, StatusOpen, false},
		{StatusResolved, StatusAcknowledged, false},
		{StatusDismissed, StatusOpen, false},
		{StatusDismissed, StatusResolved, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAlertStatusUnresolved(t *testing.T) {
	assert.True(t, StatusOpen.Unresolved())
	assert.True(t, StatusAcknowledged.Unresolved())
	assert.False(t, StatusResolved.Unresolved())
	assert.False(t, StatusDismissed.Unresolved())
}

func TestNewAlert(t *testing.T) {
	a := NewAlert("p1", AlertCostOverrun, SeverityCritical, "Cost overrun 18.50% (breach threshold: 10%)")

	assert.Equal(t, StatusOpen, a.Status)
	assert.Equal(t, "Alert", a.ObjType)
	assert.Equal(t, "p1|Cost Overrun", a.ActiveKey)
	assert.True(t, a.CreatedAt.IsZero(), "timestamp is stamped by the store, not the constructor")
}

func TestSectorBucket(t *testing.T) {
	assert.Equal(t, BucketInfrastructure, SectorHighway.Bucket())
	assert.Equal(t, BucketInfrastructure, SectorPower.Bucket())
	assert.Equal(t, BucketInfrastructure, SectorOther.Bucket())
	assert.Equal(t, BucketCRE, SectorResidential.Bucket())
	assert.Equal(t, BucketCRE, SectorCRE.Bucket())
}

func TestAlertTypeValid(t *testing.T) {
	for _, at := range []AlertType{AlertDCCODeferment, AlertCostOverrun, AlertMilestoneDelay, AlertDocumentExpiry, AlertOther} {
		assert.True(t, at.Valid(), string(at))
	}
	assert.False(t, AlertType("").Valid())
	assert.False(t, AlertType("Fraud").Valid())
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Severity("").Valid())
	assert.False(t, Severity("Urgent").Valid())
}
