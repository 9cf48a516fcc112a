package models

// Curriculum is the fixed list of subjects available for assignment.
var Curriculum = []string{
	"Functional English",
	"Ideology and Constitution of Pakistan",
	"Dynamics of Natural Sciences",
	"Application of Information and Communication Technologies (ICT)",
	"Zoology-I (Protozoology)",
	"Fundamentals of Microbiology-I",
	"Expository Writing",
	"Islamic Studies/Ethics",
	"Quantitative Reasoning-I",
	"Biochemistry",
	"Biosafety And Risk Management",
	"Quantitative Reasoning-II",
	"Civics and community engagement",
	"Zoology-II (Epidemiology of Parasitic disease)",
	"Introduction to Medical Microbiology",
	"General Immunology",
	"Environmental Microbiology & Public Health",
	"Perspectives in Social sciences",
	"Entrepreneurship",
	"Creative Arts and Communication",
	"Pakistan Studies",
	"Zoology-III (Histology)",
	"Microbial Taxonomy",
	"Soil Microbiology",
	"Research Methodology",
	"Microbial Anatomy and Physiology",
	"Cell Biology-I",
	"General Virology",
	"Mycology",
	"Diagnostic Chemistry for Microbial Diseases",
	"Cell Biology-II",
	"Bacterial Genetics",
	"Epidemiology, Public health and bioethics",
	"Applied Microbial Technology",
	"Clinical Parasitology",
	"Food and Dairy Microbiology",
	"Pharmaceutical Microbiology",
	"Field Experience / Internship",
	"Cell & Tissue Culture Technology",
	"Nano-Biotechnology",
	"Molecular Mechanism of Anti-Microbial Agents",
	"Microbial Enzyme Technology",
	"Industrial Microbiology",
	"Artificial Intelligence in Microbiology",
	"Capstone Project",
}

var curriculumSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Curriculum))
	for _, s := range Curriculum {
		set[s] = struct{}{}
	}
	return set
}()

// InCurriculum checks if subject is one of the curriculum subjects
func InCurriculum(subject string) bool {
	_, ok := curriculumSet[subject]
	return ok
}
