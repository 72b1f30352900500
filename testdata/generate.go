package main

import (
	"log"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/codesearch/reader"
)

func main() {
	entries := []reader.CodeEntry{
		{Description: "Acute bronchitis", SNOMEDConceptID: "10509002", MedCodeID: "15131000006114", SourceCodelist: "CPRD Aurum", CodelistName: "Acute bronchitis", OriginalSource: "LSHTM", CodelistDescription: "Acute lower respiratory infection"},
		{Description: "Acute bronchitis due to virus", SNOMEDConceptID: "195713007", MedCodeID: "301941000000115", SourceCodelist: "CPRD Aurum", CodelistName: "Acute bronchitis", OriginalSource: "LSHTM", CodelistDescription: "Acute lower respiratory infection"},
		{Description: "Chronic bronchitis", SNOMEDConceptID: "63480004", MedCodeID: "104641000006115", SourceCodelist: "CPRD Aurum", CodelistName: "COPD", OriginalSource: "OpenSAFELY", CodelistDescription: "Chronic obstructive pulmonary disease"},
		{Description: "Mucopurulent chronic bronchitis", SNOMEDConceptID: "89549007", MedCodeID: "258251000000110", SourceCodelist: "CPRD Aurum", CodelistName: "COPD", OriginalSource: "OpenSAFELY", CodelistDescription: "Chronic obstructive pulmonary disease"},
		{Description: "Asthma", SNOMEDConceptID: "195967001", MedCodeID: "78301000006114", SourceCodelist: "CPRD Aurum", CodelistName: "Asthma", OriginalSource: "QOF", CodelistDescription: "Asthma diagnosis"},
		{Description: "Acute exacerbation of asthma", SNOMEDConceptID: "708038006", MedCodeID: "3019081000006112", SourceCodelist: "CPRD Aurum", CodelistName: "Asthma", OriginalSource: "QOF", CodelistDescription: "Asthma diagnosis"},
		{Description: "Asthmatic bronchitis", SNOMEDConceptID: "405944004", MedCodeID: "16871000006113", SourceCodelist: "CPRD GOLD", CodelistName: "Asthma", OriginalSource: "QOF", CodelistDescription: "Asthma diagnosis"},
		{Description: "Asthmatic bronchitis", SNOMEDConceptID: "405944004", MedCodeID: "16871000006113", SourceCodelist: "CPRD GOLD", CodelistName: "COPD", OriginalSource: "OpenSAFELY", CodelistDescription: "Chronic obstructive pulmonary disease"},
	}

	file, err := os.Create("codelists.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[reader.CodeEntry](file)
	if _, err := writer.Write(entries); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated codelists.parquet with %d entries", len(entries))
}
