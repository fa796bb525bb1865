package util

type VersionType struct {
	Major    uint
	Minor    uint
	Revision uint
}

// Version of the svcnames binary, bump Minor whenever the service table format changes
var Version = VersionType{
	Major:    1,
	Minor:    0,
	Revision: 0,
}
