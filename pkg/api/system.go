package api

// System identifies one of the upstream data sources served by the ColdFusion API.
type System string

const (
	SystemGTP     System = "GTP"
	SystemBDI     System = "BDI"
	SystemTechRep System = "TechRep"
	SystemSAR     System = "SAR"
)

func (s System) method() string {
	switch s {
	case SystemBDI:
		return "getBDIDocs"
	case SystemTechRep:
		return "getTechRepDocs"
	case SystemSAR:
		return "getSarList"
	default:
		return "getGTPs"
	}
}

func (s System) component() string {
	if s == SystemSAR {
		return "sarAPI.cfc"
	}
	return "groundTestProposalAPI.cfc"
}

// payloadKeys are the response object keys that may hold the record list, probed in order.
func (s System) payloadKeys() []string {
	if s == SystemSAR {
		return []string{"SARList", "sarList", "sars", "data", "results"}
	}
	return []string{"GTPs", "docs", "documents", "data", "items"}
}
