package reader

import (
	"github.com/vegasq/codesearch/query"
)

// CodeEntry is one row of the code-list dataset as stored in Parquet.
type CodeEntry struct {
	Description         string `parquet:"Description,optional"`
	SNOMEDConceptID     string `parquet:"SNOMED_CT_Concept_ID,optional"`
	MedCodeID           string `parquet:"Med_Code_ID,optional"`
	SourceCodelist      string `parquet:"Source_Codelist,optional"`
	CodelistName        string `parquet:"Codelist_Name,optional"`
	OriginalSource      string `parquet:"Original_Source,optional"`
	CodelistDescription string `parquet:"Codelist_Description,optional"`
}

// CodeEntryColumns lists the dataset columns in file order.
var CodeEntryColumns = []string{
	"Description",
	"SNOMED_CT_Concept_ID",
	"Med_Code_ID",
	"Source_Codelist",
	"Codelist_Name",
	"Original_Source",
	"Codelist_Description",
}

// Record converts the entry to a query.Record
func (e CodeEntry) Record() query.Record {
	return query.Record{
		"Description":          e.Description,
		"SNOMED_CT_Concept_ID": e.SNOMEDConceptID,
		"Med_Code_ID":          e.MedCodeID,
		"Source_Codelist":      e.SourceCodelist,
		"Codelist_Name":        e.CodelistName,
		"Original_Source":      e.OriginalSource,
		"Codelist_Description": e.CodelistDescription,
	}
}

// CodeEntryFromRecord is the inverse of CodeEntry.Record. Unknown columns are dropped.
func CodeEntryFromRecord(r query.Record) CodeEntry {
	return CodeEntry{
		Description:         r["Description"],
		SNOMEDConceptID:     r["SNOMED_CT_Concept_ID"],
		MedCodeID:           r["Med_Code_ID"],
		SourceCodelist:      r["Source_Codelist"],
		CodelistName:        r["Codelist_Name"],
		OriginalSource:      r["Original_Source"],
		CodelistDescription: r["Codelist_Description"],
	}
}
