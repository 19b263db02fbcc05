package extraction

import "strings"

// sampleInvoiceText mimics the text layout produced from a COPEL invoice PDF.
const sampleInvoiceText = `COPEL DISTRIBUICAO S.A.
Nome: JOAO DA SILVA
Endereço: RUA DAS FLORES 123
APTO 45
CEP: 80000-000
Cidade: CURITIBA - Estado: PR
CPF: ***.456.789-**
10/03/2026
12345678
03/2026
03/202615/04/2026R$123,45
ENERGIA ELET CONSUMO
ENERGIA INJ. BAND. VERDE
CONT ILUMIN PUBLICA MUNICIPIO
kWh
kWh
UN
100
-60
0,800000
0,800000
20,00
80,00
-48,00
20,00
ICMS
PIS/PASEP
COFINS`

// tableText builds an invoice text with a padded header and the given flattened table lines.
func tableText(tableLines ...string) string {
	header := []string{
		"COPEL DISTRIBUICAO S.A. - FATURA DE ENERGIA ELETRICA",
		"DOCUMENTO AUXILIAR DA NOTA FISCAL DE ENERGIA ELETRICA ELETRONICA",
	}
	return strings.Join(append(header, tableLines...), "\n")
}
