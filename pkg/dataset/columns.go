package dataset

// Standard output column orders. Columns the API didn't return are still emitted, empty,
// so the downstream spreadsheets keep a stable shape.

var DTRColumnOrder = []string{
	"program",
	"gtpNumber",
	"gtpRevision",
	"gtpTitle",
	"gtpStatus",
	"technology",
	"gtpIssuedDate",
	"gtpApprovalDate",
	"gtpSubmittalDate",
	"gtpFinishedDate",
	"dtrRequiredDate",
	"gtpApprovedAgreedDate",
	"gtpAgreedDateInDiscussion",
	"testVehicle",
	"category",
	"pep",
	"MHPlannedTest",
	"testOwner",
	"testResponsible",
	"supervisor",
	"docType",
	"docNumber",
	"docRevision",
	"docTitle",
	"docStatus",
	"docSubmittalDate",
	"docSubmitalToApprovalDate",
	"docApprovalDate",
	"docAuthor",
	"docNextApprover",
	"docApprovers",
	"MH",
	"duracao",
	"dtrStatus",
	"errorMsg",
}

var GTPColumnOrder = []string{
	"program",
	"gtpNumber",
	"gtpRevision",
	"gtpTitle",
	"technology",
	"gtpStatus",
	"issueDate",
	"approvalDate",
	"submittalDate",
	"finishedDate",
	"agreedDate",
	"supervisor",
	"testVehicle",
	"responsible",
	"dtrStatus",
	"dtrCount",
	"dtrQuantity",
	"errorMsg",
}
