package entity

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

// VersionSource identifies what produced a version.
type VersionSource string

const (
	SourceGeneration       VersionSource = "generation"
	SourceDeslop           VersionSource = "deslop"
	SourceRegenerate       VersionSource = "regenerate"
	SourceVoiceChange      VersionSource = "voice_change"
	SourceAdversarial      VersionSource = "adversarial"
	SourceCompetitiveDive  VersionSource = "competitive_dive"
	SourceCommunityCheck   VersionSource = "community_check"
	SourceMultiPerspective VersionSource = "multi_perspective"
	SourceChat             VersionSource = "chat"
)

// SessionVersion is one row in the append-only lineage of an asset within
// a session. At most one version per (session, assetType) is active.
// SourceDetail is a free-form audit trail, opaque unless documented
// per-source.
type SessionVersion struct {
	Id            uuid.UUID
	SessionId     uuid.UUID
	AssetType     string
	VersionNumber int
	Content       string
	Source        VersionSource
	SourceDetail  map[string]interface{}
	Scores        *scoring.ScoreResults
	PassesGates   bool
	IsActive      bool
	CreatedAt     time.Time
}
