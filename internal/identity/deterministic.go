package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// OrgUUID derives the organization identifier from its external code.
func OrgUUID(orgCode string) uuid.UUID {
	return UUID("go-catalog:org:" + strings.ToLower(strings.TrimSpace(orgCode)))
}

// DocumentUUID derives a document identifier scoped to an organization and kind.
func DocumentUUID(orgID uuid.UUID, kind string, code string) uuid.UUID {
	return UUID("go-catalog:document:" + orgID.String() + ":" + strings.TrimSpace(kind) + ":" + strings.TrimSpace(code))
}

// SiteUUID derives a site identifier scoped to an organization.
func SiteUUID(orgID uuid.UUID, siteCode string) uuid.UUID {
	return UUID("go-catalog:site:" + orgID.String() + ":" + strings.ToLower(strings.TrimSpace(siteCode)))
}

// ScheduleUUID derives a schedule identifier scoped to a document.
func ScheduleUUID(documentID uuid.UUID, name string) uuid.UUID {
	return UUID("go-catalog:schedule:" + documentID.String() + ":" + strings.TrimSpace(name))
}
