package genbank

import "strings"

// codonTable is the standard genetic code (NCBI translation table 1),
// which covers the viral reference CDSes this tool rewrites. Codons with
// ambiguity codes translate to X.
var codonTable = map[string]byte{
	"ttt": 'F', "ttc": 'F', "tta": 'L', "ttg": 'L',
	"ctt": 'L', "ctc": 'L', "cta": 'L', "ctg": 'L',
	"att": 'I', "atc": 'I', "ata": 'I', "atg": 'M',
	"gtt": 'V', "gtc": 'V', "gta": 'V', "gtg": 'V',
	"tct": 'S', "tcc": 'S', "tca": 'S', "tcg": 'S',
	"cct": 'P', "ccc": 'P', "cca": 'P', "ccg": 'P',
	"act": 'T', "acc": 'T', "aca": 'T', "acg": 'T',
	"gct": 'A', "gcc": 'A', "gca": 'A', "gcg": 'A',
	"tat": 'Y', "tac": 'Y', "taa": '*', "tag": '*',
	"cat": 'H', "cac": 'H', "caa": 'Q', "cag": 'Q',
	"aat": 'N', "aac": 'N', "aaa": 'K', "aag": 'K',
	"gat": 'D', "gac": 'D', "gaa": 'E', "gag": 'E',
	"tgt": 'C', "tgc": 'C', "tga": '*', "tgg": 'W',
	"cgt": 'R', "cgc": 'R', "cga": 'R', "cgg": 'R',
	"agt": 'S', "agc": 'S', "aga": 'R', "agg": 'R',
	"ggt": 'G', "ggc": 'G', "gga": 'G', "ggg": 'G',
}

// Translate translates a nucleotide sequence with the standard genetic
// code. A trailing partial codon is dropped; internal stops come out as
// '*'; a single trailing stop is trimmed, matching how /translation
// qualifiers are written in RefSeq records.
func Translate(dna string) string {
	dna = strings.ToLower(dna)
	var b strings.Builder
	b.Grow(len(dna) / 3)
	for i := 0; i+3 <= len(dna); i += 3 {
		aa, ok := codonTable[dna[i:i+3]]
		if !ok {
			aa = 'X'
		}
		b.WriteByte(aa)
	}
	return strings.TrimSuffix(b.String(), "*")
}

// complement maps each nucleotide (including IUPAC ambiguity codes) to
// its complement, preserving case.
var complement = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = byte(i)
	}
	pairs := map[byte]byte{
		'a': 't', 't': 'a', 'g': 'c', 'c': 'g', 'u': 'a',
		'r': 'y', 'y': 'r', 'k': 'm', 'm': 'k',
		'b': 'v', 'v': 'b', 'd': 'h', 'h': 'd',
		'n': 'n', 's': 's', 'w': 'w',
	}
	for from, to := range pairs {
		m[from] = to
		m[from-'a'+'A'] = to - 'a' + 'A'
	}
	return m
}()

// ReverseComplement returns the reverse complement of a nucleotide
// sequence.
func ReverseComplement(dna string) string {
	out := make([]byte, len(dna))
	for i := 0; i < len(dna); i++ {
		out[len(dna)-1-i] = complement[dna[i]]
	}
	return string(out)
}
