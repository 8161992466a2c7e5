package roster

// Colonnes fixes du planning brut (voir format d'export du SIRH):
// colonne A = identité / lignes de date, colonne C = marqueur de catégorie,
// colonne D (ou C selon la mise en page) = libellé de ligne, ensuite une
// colonne par jour du mois, entêtes de jour en ligne 1.
const (
	colIdentity = 1
	colUnit     = 2
	colCategory = 3
	headerRow   = 1

	// valeur du marqueur de catégorie pour un bloc de remplaçants
	categoryReplacement = "2"

	// libellés de ligne d'un bloc de 5 lignes
	labelHours    = "Hor."
	labelActivity = "Act. jour"
	labelLastName = "Nom"
	labelFirstRow = "Prénom"

	// valeur sentinelle d'une affectation à pourvoir par un intérimaire
	locationToFill = "A POURVOIR"

	// noms des feuilles générées
	SheetLecture     = "lecture"
	SheetInterimaire = "interimaire"

	// première ligne de données des feuilles générées (bandeau + entête avant)
	firstDataRow = 5
)

// ReplacementRecord est une annotation de remplaçant extraite de la colonne
// identité: "dd/mm/yyyy : Nom Prénom" dans un bloc de remplaçants.
// Clé de rapprochement: (libellé de groupe normalisé, date). Les doublons sont
// permis, le rapprochement prend le premier.
type ReplacementRecord struct {
	Date   string // dd/mm/yyyy
	Group  string // libellé brut du bloc, sauts de ligne aplatis
	Nom    string
	Prenom string
}

// LectureRecord est une ligne de la feuille "lecture": une affectation
// (personne, jour). RowSource est la ligne physique (1-based) où la ligne vit
// dans la feuille générée, utilisée pour les références croisées.
type LectureRecord struct {
	Date      string // dd/mm/yyyy
	Group     string
	Hours     string
	Motif     string // laissé vide, saisi par l'utilisateur
	Replaced  string // laissé vide, saisi par l'utilisateur
	Name      string
	Location  string
	RowSource int
}

// BadakanRecord est une ligne de l'export plat pour l'outil d'intérim.
// Lignes indépendantes, aucune référence croisée.
type BadakanRecord struct {
	Nom           string
	Prenom        string
	Poste         string
	Etablissement string
	DateLabel     string // "Lundi 02/03/2026"
	Start         string // HH:MM
	Break         string // HH:MM
	End           string // HH:MM
	Worked        string // heures décimales, virgule décimale
	Replaced      string
	Motif         string
	Commentaire   string
	Complement    string
	Service       string
	Unite         string
}
