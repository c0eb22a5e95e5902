package catalog

// Reference dosing charts. The numbers below are copied from the official
// product leaflets and must not be edited without a new chart revision.

const (
	tabletMinWeight = 5.0
	tabletMaxWeight = 100.0
	vialMinWeight   = 0.0
	vialMaxWeight   = 100.0

	// argesun is reconstituted to a fixed 20 mg/ml whatever the route
	singleSolventConcentration = 20.0
)

func darteppProduct() *Product {
	return &Product{
		ID:   DArtepp,
		Name: "D-Artepp®",
		Description: LocalizedText{
			"en": "Antimalarial Dosage Calculator",
			"zh": "抗疟疾药物剂量计算器",
			"fr": "Calculateur de Dosage Antipaludique",
		},
		Scheme: &TabletScheme{
			MinWeight: tabletMinWeight,
			MaxWeight: tabletMaxWeight,
			Types: []TabletType{
				{
					Name: LocalizedText{
						"en": "D-ARTEPP Dispersible",
						"zh": "D-ARTEPP 分散片",
						"fr": "D-ARTEPP Dispersible",
					},
					Specifications: []Specification{
						{
							Dosage: "20mg/120mg",
							WeightRanges: []WeightRange{
								{Min: 5, Max: 8, Count: 1},
								{Min: 11, Max: 17, Count: 2},
								{Min: 17, Max: 25, Count: 3},
								{Min: 25, Max: 36, Count: 4},
								{Min: 36, Max: 60, Count: 6},
								{Min: 60, Max: 80, Count: 8},
								{Min: 80, Max: 100, Count: 10},
							},
						},
						{
							Dosage: "30mg/180mg",
							WeightRanges: []WeightRange{
								{Min: 8, Max: 11, Count: 1},
								{Min: 17, Max: 25, Count: 2},
								{Min: 36, Max: 60, Count: 4},
							},
						},
						{
							Dosage: "40mg/240mg",
							WeightRanges: []WeightRange{
								{Min: 11, Max: 17, Count: 1},
								{Min: 25, Max: 36, Count: 2},
								{Min: 36, Max: 60, Count: 3},
								{Min: 60, Max: 80, Count: 4},
								{Min: 80, Max: 100, Count: 5},
							},
						},
					},
				},
				{
					Name: LocalizedText{
						"en": "D-ARTEPP",
						"zh": "D-ARTEPP",
						"fr": "D-ARTEPP",
					},
					Specifications: []Specification{
						{
							Dosage: "40mg/240mg",
							WeightRanges: []WeightRange{
								{Min: 17, Max: 25, Count: 1.5},
								{Min: 25, Max: 36, Count: 2},
								{Min: 36, Max: 60, Count: 3},
								{Min: 60, Max: 80, Count: 4},
								{Min: 80, Max: 100, Count: 5},
							},
						},
						{
							Dosage: "60mg/360mg",
							WeightRanges: []WeightRange{
								{Min: 17, Max: 25, Count: 1},
								{Min: 36, Max: 60, Count: 2},
							},
						},
						{
							Dosage: "80mg/480mg",
							WeightRanges: []WeightRange{
								{Min: 25, Max: 36, Count: 1},
								{Min: 36, Max: 60, Count: 1.5},
								{Min: 60, Max: 80, Count: 2},
								{Min: 80, Max: 100, Count: 2.5},
							},
						},
					},
				},
			},
		},
	}
}

func argesunProduct() *Product {
	return &Product{
		ID:   Argesun,
		Name: "Argesun®",
		Description: LocalizedText{
			"en": "Artesunate Injection Dosage Calculator",
			"zh": "注射用青蒿琥酯剂量计算器",
			"fr": "Calculateur de Dosage Artesunate Injectible",
		},
		Scheme: &VialScheme{
			Formula:       DosageFormula{Child: 3.0, Adult: 2.4},
			Solvent:       SingleSolvent,
			Concentration: singleSolventConcentration,
			MinWeight:     vialMinWeight,
			MaxWeight:     vialMaxWeight,
			Strengths: []Strength{
				{Mg: 30, SolventVolume: 1.5, VialSize: "5ml", AmpouleSize: "3ml"},
				{Mg: 60, SolventVolume: 3.0, VialSize: "5ml", AmpouleSize: "3ml"},
				{Mg: 120, SolventVolume: 6.0, VialSize: "7ml", AmpouleSize: "6ml"},
				{Mg: 180, SolventVolume: 9.0, VialSize: "10ml", AmpouleSize: "10ml"},
			},
		},
	}
}

func artesunProduct() *Product {
	return &Product{
		ID:   Artesun,
		Name: "Artesun®",
		Description: LocalizedText{
			"en": "Artesunate for Injection",
			"zh": "注射用青蒿琥酯",
			"fr": "Artesunate pour Injection",
		},
		Scheme: &VialScheme{
			Formula:        DosageFormula{Child: 3.0, Adult: 2.4},
			Solvent:        DualSolvent,
			Concentrations: &Concentrations{IV: 10, IM: 20},
			MinWeight:      vialMinWeight,
			MaxWeight:      vialMaxWeight,
			Strengths: []Strength{
				{
					Mg:                  30,
					BicarbonateVolume:   0.5,
					SalineVolume:        2.5,
					IMSalineVolume:      1.0,
					AfterReconstitution: 0.5,
					AfterDilutionIV:     6.0,
					AfterDilutionIM:     3.0,
				},
				{
					Mg:                  60,
					BicarbonateVolume:   1.0,
					SalineVolume:        5.0,
					IMSalineVolume:      2.0,
					AfterReconstitution: 1.0,
					AfterDilutionIV:     6.0,
					AfterDilutionIM:     3.0,
				},
				{
					Mg:                  120,
					BicarbonateVolume:   2.0,
					SalineVolume:        10.0,
					IMSalineVolume:      4.0,
					AfterReconstitution: 2.0,
					AfterDilutionIV:     6.0,
					AfterDilutionIM:     3.0,
				},
			},
		},
	}
}

// Default returns a fresh copy of the built-in catalog
func Default() *Catalog {
	c, err := New(darteppProduct(), argesunProduct(), artesunProduct())
	if err != nil {
		// the built-in tables are static; a failure here is a programming error
		panic(err)
	}
	return c
}
