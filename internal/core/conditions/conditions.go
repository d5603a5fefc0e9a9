// Package conditions holds the reference catalog of skin conditions the
// model can recognize, shown in the library view and condition pages.
package conditions

import (
	"fmt"
	"strings"
)

// Condition is one entry in the reference catalog.
type Condition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	WhatItIs    string   `json:"what_it_is"`
	Symptoms    []string `json:"symptoms"`
	Causes      string   `json:"causes"`
	Prevention  []string `json:"prevention"`
	Treatment   string   `json:"treatment"`
}

// All returns the full catalog in display order.
func All() []Condition {
	return catalog
}

// Find returns the condition whose name matches, ignoring case.
func Find(name string) (Condition, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range catalog {
		if strings.ToLower(c.Name) == needle {
			return c, true
		}
	}
	return Condition{}, false
}

// Names returns the catalog names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = c.Name
	}
	return names
}

// Markdown renders the condition as a markdown document.
func (c Condition) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	fmt.Fprintf(&b, "_%s_\n\n", c.Description)
	fmt.Fprintf(&b, "## What it is\n\n%s\n\n", c.WhatItIs)

	b.WriteString("## Symptoms\n\n")
	for _, s := range c.Symptoms {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Causes\n\n%s\n\n", c.Causes)

	b.WriteString("## Prevention\n\n")
	for _, p := range c.Prevention {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Treatment\n\n%s\n", c.Treatment)
	return b.String()
}

var catalog = []Condition{
	{
		Name:        "Nail Fungus",
		Description: "A common infection of the nail that causes it to become discolored, thickened, and more likely to crack and break.",
		WhatItIs:    "Onychomycosis, or nail fungus, is a common condition that begins as a white or yellow spot under the tip of your fingernail or toenail. As the fungal infection goes deeper, it may cause your nail to discolor, thicken, and crumble at the edge.",
		Symptoms: []string{
			"Thickened nails",
			"Whitish to yellow-brown discoloration",
			"Brittle, crumbly or ragged nails",
			"Distorted in shape",
			"A dark color, caused by debris building up under your nail",
			"Slightly foul smell",
		},
		Causes: "Fungal nail infections are caused by various fungal organisms (fungi). The most common is a type of fungus called dermatophyte. Yeast and molds also can cause nail infections.",
		Prevention: []string{
			"Wash your hands and feet regularly.",
			"Keep your nails short, dry and clean.",
			"Wear sweat-absorbing socks or change your socks throughout the day.",
			"Choose shoes made of materials that breathe.",
			"Wear footwear in pool areas and locker rooms.",
		},
		Treatment: "Treatment may include oral antifungal drugs, medicated nail polish, or medicated nail cream. In some cases, a doctor might suggest temporary removal of the nail.",
	},
	{
		Name:        "Ringworm",
		Description: "A highly contagious, fungal infection of the skin or scalp, characterized by a ring-shaped rash.",
		WhatItIs:    "Ringworm of the body (tinea corporis) is a rash caused by a fungal infection. It's usually a red, itchy, circular rash with clearer skin in the middle. Ringworm gets its name because of its appearance. No worm is involved.",
		Symptoms: []string{
			"A scaly ring-shaped area, typically on the buttocks, trunk, arms and legs",
			"Itchiness",
			"A clear or scaly area inside the ring, perhaps with a scattering of bumps",
			"Slightly raised, expanding rings",
			"A round, flat patch of itchy skin",
		},
		Causes: "Ringworm is a contagious fungal infection caused by common mold-like parasites that live on the cells in the outer layer of your skin. It can be spread by direct skin-to-skin contact with an infected person or animal.",
		Prevention: []string{
			"Keep your skin clean and dry.",
			"Avoid sharing personal items like clothing, towels, hairbrushes, or other personal care items.",
			"Wear shoes that allow air to circulate freely around your feet.",
			"Change your socks and underwear at least once a day.",
		},
		Treatment: "Your doctor can usually diagnose ringworm by looking at your skin. Treatment typically involves antifungal medications applied to the skin. For severe cases, you may need to take antifungal pills for several weeks.",
	},
	{
		Name:        "Shingles",
		Description: "A viral infection that causes a painful rash. It's caused by the same virus as chickenpox.",
		WhatItIs:    "Shingles is a viral infection that causes a painful rash. Although shingles can occur anywhere on your body, it most often appears as a single stripe of blisters that wraps around either the left or the right side of your torso.",
		Symptoms: []string{
			"Pain, burning, numbness or tingling",
			"Sensitivity to touch",
			"A red rash that begins a few days after the pain",
			"Fluid-filled blisters that break open and crust over",
			"Itching",
			"Fever, headache, and fatigue",
		},
		Causes: "Shingles is caused by the varicella-zoster virus, the same virus that causes chickenpox. After you've had chickenpox, the virus lies inactive in nerve tissue near your spinal cord and brain. Years later, the virus may reactivate as shingles.",
		Prevention: []string{
			"The shingles vaccine (Shingrix) is the most effective way to prevent shingles.",
			"Avoiding contact with the open sores of someone who has shingles if you've never had chickenpox or the chickenpox vaccine.",
		},
		Treatment: "There's no cure for shingles, but prompt treatment with prescription antiviral drugs can speed healing and reduce your risk of complications. Pain relievers may also help with the pain.",
	},
	{
		Name:        "Impetigo",
		Description: "A common and highly contagious skin infection that causes red sores on the face, hands, and feet.",
		WhatItIs:    "Impetigo is a common and highly contagious skin infection that mainly affects infants and children. It usually appears as red sores on the face, especially around a child's nose and mouth, and on hands and feet.",
		Symptoms: []string{
			"Red sores that quickly rupture, ooze for a few days and then form a yellowish-brown crust",
			"Itching and soreness",
			"Painless, fluid-filled blisters (bullous impetigo)",
			"In more serious cases, deep ulcers (ecthyma)",
		},
		Causes: "You're exposed to the bacteria that cause impetigo when you come into contact with the sores of someone who's infected or with items they've touched, such as clothing, bed linen, towels and even toys.",
		Prevention: []string{
			"Keep skin clean to stay healthy.",
			"It's important to wash cuts, scrapes, insect bites and other wounds right away.",
			"To help prevent impetigo from spreading to others, wash your hands regularly and avoid sharing personal items.",
		},
		Treatment: "Impetigo is typically treated with an antibiotic ointment or cream that you apply directly to the sores. You may need to first soak the affected area in warm water or use wet compresses to help remove the crusts.",
	},
	{
		Name:        "Athlete's Foot",
		Description: "A fungal infection that usually begins between the toes, causing a scaly rash that may itch, sting, or burn.",
		WhatItIs:    "Athlete's foot (tinea pedis) is a fungal skin infection that usually begins between the toes. It commonly occurs in people whose feet have become very sweaty while confined within tight-fitting shoes.",
		Symptoms: []string{
			"A scaly, peeling or cracked rash between your toes",
			"Itching, especially right after taking off shoes and socks",
			"Inflamed skin that might appear reddish, purplish or grayish, depending on your skin color",
			"Burning or stinging",
			"Blisters",
		},
		Causes: "Athlete's foot is caused by the same type of fungi (dermatophytes) that cause ringworm and jock itch. Damp socks and shoes and warm, humid conditions favor the organisms' growth.",
		Prevention: []string{
			"Keep your feet dry, especially between your toes.",
			"Change socks regularly.",
			"Wear light, well-ventilated shoes.",
			"Alternate pairs of shoes.",
			"Protect your feet in public places like pools and locker rooms.",
		},
		Treatment: "Over-the-counter antifungal ointments, lotions, powders and sprays can be effective. If your athlete's foot doesn't respond, you may need a prescription-strength medication to apply to your feet or an oral antifungal medication.",
	},
	{
		Name:        "Chickenpox",
		Description: "A highly contagious viral infection causing an itchy, blister-like rash on the skin.",
		WhatItIs:    "Chickenpox is a highly contagious infection caused by the varicella-zoster virus. It's characterized by an itchy rash with small, fluid-filled blisters. It is most common in children.",
		Symptoms: []string{
			"An itchy rash of spots that look like blisters",
			"Fever",
			"Loss of appetite",
			"Headache",
			"Tiredness and a general feeling of being unwell (malaise)",
		},
		Causes: "The chickenpox infection is caused by the varicella-zoster virus. It spreads easily from person to person by direct contact with the rash or by droplets dispersed into the air by coughing or sneezing.",
		Prevention: []string{
			"The chickenpox vaccine is the best way to prevent chickenpox. The vaccine provides complete protection from the virus for nearly 98% of people who receive both recommended doses.",
		},
		Treatment: "In otherwise healthy children, chickenpox typically needs no medical treatment. A doctor might prescribe an antihistamine to relieve itching. For people at high risk of complications, doctors sometimes prescribe medications to shorten the length of the infection.",
	},
	{
		Name:        "Cutaneous Larva Migrans",
		Description: "A skin disease in humans, caused by the larvae of hookworm parasites that live in cats and dogs.",
		WhatItIs:    "Cutaneous larva migrans (CLM) is a parasitic skin infection caused by hookworm larvae that usually infest cats, dogs and other animals. Humans can be infected with the larvae by walking barefoot on sandy beaches or contacting moist soft soil that has been contaminated with animal feces.",
		Symptoms: []string{
			"Winding, threadlike tracks under the skin",
			"Itching, which can be very intense",
			"Blisters",
			"Swelling",
		},
		Causes: "The infection is caused by the larvae of various hookworm species. The eggs are passed in the feces of infected animals. When the eggs hatch, the larvae can infect a human host upon skin contact.",
		Prevention: []string{
			"Avoid walking barefoot in areas where hookworm is common and where the ground may be contaminated by animal feces.",
			"Use a protective mat or towel when lying on the beach or ground.",
		},
		Treatment: "The infection usually resolves on its own in weeks to months. However, treatment with antiparasitic drugs like albendazole or ivermectin can relieve symptoms and shorten the duration of the infection.",
	},
	{
		Name:        "Cellulitis",
		Description: "A common, potentially serious bacterial skin infection that appears as a swollen, red area of skin that feels hot and tender.",
		WhatItIs:    "Cellulitis is a common and sometimes serious bacterial skin infection. The infected skin appears swollen and red and is typically painful and warm to the touch. It commonly affects the skin on the lower legs, but can occur on the face, arms and other areas.",
		Symptoms: []string{
			"Redness and swelling in the affected area",
			"Pain and tenderness",
			"Warmth of the skin",
			"Fever",
			"Red spots, blisters, and skin dimpling",
		},
		Causes: "Cellulitis occurs when bacteria, most commonly streptococcus and staphylococcus, enter through a crack or break in your skin. The incidence of a more serious staphylococcus infection called methicillin-resistant Staphylococcus aureus (MRSA) is increasing.",
		Prevention: []string{
			"Keep your skin clean.",
			"If you have a wound, wash it daily with soap and water.",
			"Apply a protective cream or ointment.",
			"Cover your wound with a bandage.",
			"Watch for signs of infection.",
		},
		Treatment: "Cellulitis treatment usually includes a prescription for oral antibiotics. Within three days of starting an antibiotic, let your doctor know if your symptoms aren't improving. You may need to be hospitalized and receive antibiotics through your veins (intravenously).",
	},
}
