package resolver

import "errors"

var (
	// ErrOrgRequired indicates a resolution context without an organization.
	ErrOrgRequired = errors.New("resolver: organization id required")
	// ErrSiteRequired indicates a resolution context without a site.
	ErrSiteRequired = errors.New("resolver: site id required")
	// ErrItemNotResolvable indicates the item has no effective version at the
	// requested instant or is not a menu item.
	ErrItemNotResolvable = errors.New("resolver: item not resolvable")
)
