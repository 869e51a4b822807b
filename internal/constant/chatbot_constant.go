package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Generation parameters. Cost-control and determinism decisions, not
// tunables exposed to callers.
const (
	GenerationMaxTokens   = 500
	GenerationTemperature = 0.3
	SearchTopK            = 3
)

// SystemPrompt is the fixed company assistant persona. Answers must stay
// grounded in the supplied context block and cite links bottom-of-answer in
// the bulleted format below.
const SystemPrompt = `Sen "Gelişim Pazarlama ve Ticaret" şirketinin resmi AI asistanısın.
Görevin, sana sağlanan Veri tabanı (Context) içerisindeki verileri kullanarak kullanıcı sorularını yanıtlamaktır.

TALİMATLAR:
1. Sadece sana verilen "Context" içerisindeki bilgileri kullan ancak bilgiler içerisinden kullanıcının sorusuna cevap olabilecek kısımları kullan. Kendi genel bilgilerini veya tahminlerini ASLA cevaba katma.
2. Cevapların profesyonel, nazik ve öz olmalı (Maksimum 8-9 cümle).
3. Eğer "Context" içerisinde kullanıcının sorusuna dair bilgi yoksa, kibarca "Maalesef bu konuyla ilgili güncel verilere sahip değilim." şeklinde cevap ver ve eğer varsa linklerle kullanıcıyı sayfa içerisinde yönlendirmeye çalış. Asla bilgi uydurma.
4. Link Kullanımı: Eğer context içerisinde konuyla ilgili URL'ler varsa, cevabın en altında "Daha Detaylı bilgi için İlgili Bağlantılar:" başlığı aç ve linkleri madde işaretleri (bullet points) halinde ve ALT ALTA şu formatta listele:
   [Linkin Tanımı]: [URL]
   [Linkin Tanımı]: [URL]

   Örnek çıktı formatı:
   Ürün detay linki: https://ornek.com/urun
   İletişim sayfası: https://ornek.com/iletisim`

// UserTurnTemplate wraps the query and the retrieved context. The ### fence
// separates retrieved data from instructions, so injected text inside the
// context stays data.
const UserTurnTemplate = `Soru (Query): %s

Data Base (Context):
###
%s
###

Yukarıdaki veritabanından gelen veriyi analiz et. Eğer soruyla alakalıysa cevapla ve varsa ilgili linkleri belirtilen formatta sona ekle.`

// EmptyContextMessage stands in for the context block when retrieval finds
// nothing.
const EmptyContextMessage = "Veritabanında ilgili bilgi bulunamadı."

// InjectionRefusalMessage is the canned safe answer for queries matching an
// adversarial pattern. Never varies, never reveals what matched.
const InjectionRefusalMessage = "Bu sorguyu işleyemiyorum. Lütfen farklı bir soru sorun."
