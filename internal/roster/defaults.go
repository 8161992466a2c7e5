package roster

// DefaultFallbackYear est l'année de référence utilisée quand aucune ligne
// "dd/mm/yyyy :" n'est trouvée dans la colonne identité du planning brut.
const DefaultFallbackYear = 2026

// DefaultJobTitle est l'intitulé de poste fixe des lignes Badakan.
const DefaultJobTitle = "Intérimaire"

// DefaultMotifs est la liste des motifs d'absence proposés dans la liste
// déroulante de la feuille lecture. Surchageable par configuration: les
// motifs valides évoluent avec les accords d'entreprise.
var DefaultMotifs = []string{
	"Accident de travail",
	"Arrêt Maladie",
	"Congé de Maternité",
	"Congé parental d'éducation",
	"Congés Payés",
	"Formation",
	"Mi-temps Thérapeutique",
	"Récupération",
	"Surcroît temporaire d'activité CNR ou",
	"Surcroit temporaire d’activité",
	"Absence injustifiée",
	"Congé d'ancienneté",
	"Congé de Paternité",
	"Congé de présence parentale",
	"Congé Individuel de Formation",
	"Congé sabbatique",
	"Congés Évènements Familiaux",
	"Congés sans solde",
	"Congés spécifiques/trimestriels",
	"Dans l'attente de la nomination du titulaire",
	"Détachement du titulaire sur une tâche exceptionnelle",
	"Mise à pied conservatoire",
	"Mise à pied disciplinaire",
	"Réduction temps travail femme enceinte",
}

// DefaultStructures est la table (code SIRH, établissement) compilée par
// défaut. Surchargeable par configuration: la liste des établissements bouge
// d'une année sur l'autre.
var DefaultStructures = []StructureEntry{
	{"6750404", "EA ADAPAYSAGE BOURG"},
	{"6750405", "EA ADAPAYSAGE HAUT BUGEY"},
	{"6750309", "ESAT BELLEGARDE INDUSTRIE"},
	{"6750313", "ESAT CENTRE DE VIE RURALE"},
	{"6750307", "ESAT LA LECHERE"},
	{"6750305", "ESAT LE PENNESSUY"},
	{"6750311", "ESAT LES ATELIERS DE NIERME"},
	{"6750303", "ESAT LES BROSSES"},
	{"6750301", "ESAT LES DOMBES"},
	{"6750315", "ESAT LES TEPPES"},
	{"6750503", "FAM PRE LA TOUR"},
	{"6750504", "FAM SOUS LA ROCHE"},
	{"6750215", "FOYER BELLEVUE"},
	{"6750212", "FOYER DE TREFFORT"},
	{"6750213", "FOYER COURTES VERNOUX"},
	{"6750203", "FOYER CROIX BLANCHE"},
	{"6750201", "FOYER DE DOMAGNE"},
	{"6750210", "FOYER DE LASSIGNIEU"},
	{"6750207", "FOYER LE SOUS BOIS"},
	{"6750204", "FOYER LE VILLARDOIS"},
	{"6750202", "FOYER LES 4 VENTS"},
	{"6750209", "FOYER LES FLORALIES"},
	{"6750211", "FOYER LES PATIOS"},
	{"6750206", "FOYER LES PRES DE BROU"},
	{"6750214", "FOYER LES SOURDIERES"},
	{"6750208", "FOYER LE VAL FLEURI"},
	{"6750300", "CHAMP D'OR"},
	{"6750102", "IME GEORGES LOISEAU"},
	{"6750105", "IME L'ARMAILLOU"},
	{"6750101", "IME LE PRELION"},
	{"6750103", "IME LES SAPINS"},
	{"6750402", "EA DE BROU"},
	{"6750104", "IME SERVICE LES MUSCARIS"},
	{"6750401", "EA MAISONNETTE"},
	{"6750403", "EA MAISON DES PAYS DE L'AIN"},
	{"6750505", "MAS BELLEVUE"},
	{"6750502", "MAS LES MONTAINES"},
	{"6750501", "MAS MONTPLAISANT"},
	{"6750205", "SAVS LE PASSAGE BG EN B"},
	{"6750001", "ADAPEI DE L'AIN SIEGE SOCIAL"},
	{"6750007", "PCPE"},
	{"6750004", "POLE GEST BOURG EN BRESSE"},
	{"6750005", "POLE DE GESTION OYONNAX"},
	{"6750006", "POLE DE GESTION BELLEY"},
	{"6750003", "POLE GEST FONC TRANSVERSES"},
	{"675020902", "SAJ FOYER LES FLORALIES"},
	{"675020102", "SAJ DE DOMAGNE"},
	{"675021402", "SAJ FOYER LES SOURDIERES"},
	{"675020702", "SAJ FOYER SOUS BOIS"},
	{"675021202", "SAJ FOYER DE TREFFORT"},
	{"675020402", "SAJ FOYER LE VILLARDOIS"},
	{"675021002", "SAJ FOYER DE LASSIGNIEU"},
	{"675020903", "SAVS FOYER LES FLORALIES"},
	{"675021003", "SAVS FOYER DE LASSIGNIEU"},
	{"675020703", "SAVS SOUS-BOIS"},
	{"675010101", "SESSAD LES DOMBES"},
	{"675010501", "SESSAD INTERLUDE"},
	{"675010201", "SESSAD G LOISEAU"},
	{"67510301", "SESSAD LES SAPINS"},
}
