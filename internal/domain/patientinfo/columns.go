package patientinfo

// column pairs a patient_info column with the struct field it maps to.
type column struct {
	name string
	ptr  interface{}
}

// columns lists every summary column in table order, excluding person_id
// and last_updated.
func (p *PatientInfo) columns() []column {
	return []column{
		{"patient_age", &p.PatientAge},
		{"gender", &p.Gender},
		{"ethnicity", &p.Ethnicity},
		{"languages", &p.Languages},
		{"language_skill_level", &p.LanguageSkillLevel},

		{"country", &p.Country},
		{"region", &p.Region},
		{"postal_code", &p.PostalCode},
		{"latitude", &p.Latitude},
		{"longitude", &p.Longitude},

		{"disease", &p.Disease.Disease},
		{"diagnosis_date", &p.DiagnosisDate},
		{"stage", &p.Stage},
		{"tumor_stage", &p.TumorStage},
		{"nodes_stage", &p.NodesStage},
		{"distant_metastasis_stage", &p.DistantMetastasisStage},
		{"histologic_type", &p.HistologicType},
		{"primary_site", &p.PrimarySite},
		{"tumor_grade", &p.TumorGrade},
		{"metastatic", &p.Metastatic},

		{"first_line_therapy", &p.FirstLineTherapy},
		{"first_line_date", &p.FirstLineDate},
		{"first_line_outcome", &p.FirstLineOutcome},
		{"second_line_therapy", &p.SecondLineTherapy},
		{"second_line_date", &p.SecondLineDate},
		{"second_line_outcome", &p.SecondLineOutcome},
		{"later_therapy", &p.LaterTherapy},
		{"later_date", &p.LaterDate},
		{"later_outcome", &p.LaterOutcome},
		{"therapy_lines_count", &p.TherapyLinesCount},
		{"prior_therapy", &p.PriorTherapy},
		{"prior_platinum", &p.PriorPlatinum},
		{"prior_immunotherapy", &p.PriorImmunotherapy},
		{"prior_chemotherapy", &p.PriorChemotherapy},
		{"prior_targeted_therapy", &p.PriorTargetedTherapy},
		{"therapy_intent", &p.TherapyIntent},
		{"reason_for_discontinuation", &p.ReasonForDiscontinuation},

		{"systolic_blood_pressure", &p.SystolicBloodPressure},
		{"diastolic_blood_pressure", &p.DiastolicBloodPressure},
		{"heartrate", &p.HeartRate},
		{"weight", &p.Weight},
		{"weight_units", &p.WeightUnits},
		{"height", &p.Height},
		{"height_units", &p.HeightUnits},
		{"bmi", &p.BMI},
		{"body_temperature", &p.BodyTemperature},

		{"pd_l1_tumor_cells", &p.PDL1TumorCells},
		{"pd_l1_assay", &p.PDL1Assay},
		{"estrogen_receptor_status", &p.EstrogenReceptorStatus},
		{"progesterone_receptor_status", &p.ProgesteroneReceptorStatus},
		{"her2_status", &p.HER2Status},
		{"ki67_percentage", &p.Ki67Percentage},
		{"tnbc_status", &p.TNBCStatus},

		{"employment_status", &p.EmploymentStatus},
		{"insurance_type", &p.InsuranceType},
		{"education_level", &p.EducationLevel},
		{"marital_status", &p.MaritalStatus},

		{"tobacco_use_status", &p.TobaccoUseStatus},
		{"no_tobacco_use_status", &p.NoTobaccoUseStatus},
		{"tobacco_use_details", &p.TobaccoUseDetails},
		{"tobacco_pack_years", &p.TobaccoPackYears},
		{"alcohol_use", &p.AlcoholUse},

		{"hiv_status", &p.HIVStatus},
		{"no_hiv_status", &p.NoHIVStatus},
		{"hepatitis_b_status", &p.HepatitisBStatus},
		{"no_hepatitis_b_status", &p.NoHepatitisBStatus},
		{"hepatitis_c_status", &p.HepatitisCStatus},
		{"no_hepatitis_c_status", &p.NoHepatitisCStatus},

		{"best_response", &p.BestResponse},
		{"response_date", &p.ResponseDate},
		{"tumor_lesion_sum", &p.TumorLesionSum},
		{"measurable_disease_by_recist_status", &p.MeasurableDiseaseByRECISTStatus},

		{"hemoglobin_level", &p.HemoglobinLevel},
		{"hemoglobin_level_units", &p.HemoglobinLevelUnits},
		{"platelet_count", &p.PlateletCount},
		{"platelet_count_units", &p.PlateletCountUnits},
		{"serum_creatinine_level", &p.SerumCreatinineLevel},
		{"serum_creatinine_level_units", &p.SerumCreatinineLevelUnits},
		{"serum_calcium_level", &p.SerumCalciumLevel},
		{"serum_calcium_level_units", &p.SerumCalciumLevelUnits},
		{"serum_bilirubin_level_total", &p.SerumBilirubinLevelTotal},
		{"serum_bilirubin_level_total_units", &p.SerumBilirubinLevelTotalUnits},
		{"albumin_level", &p.AlbuminLevel},
		{"albumin_level_units", &p.AlbuminLevelUnits},

		{"ecog_performance_status", &p.ECOGPerformanceStatus},
		{"karnofsky_performance_score", &p.KarnofskyPerformanceScore},

		{"genetic_mutations", &p.GeneticMutations},
	}
}
